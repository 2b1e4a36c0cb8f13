package card

// Size identifies a physical card output profile.
type Size string

const (
	// SizeLarge is the full-page certificate-style card.
	SizeLarge Size = "large"
	// SizeWallet is the small printable wallet card.
	SizeWallet Size = "wallet"
)

// Align controls horizontal text alignment within a placement box.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Field keys bindable by a placement. An empty Field renders the Label alone.
const (
	FieldName          = "name"
	FieldDesignation   = "designation"
	FieldDeanery       = "deanery"
	FieldParish        = "parish"
	FieldDateOfBaptism = "dateOfBaptism"
	FieldDateOfBirth   = "dateOfBirth"
	FieldPhone         = "phone"
	FieldFatherName    = "fatherName"
	FieldMotherName    = "motherName"
	FieldPostalAddress = "postalAddress"
	FieldFooter        = "footer"
)

// Conversion between CSS pixels (96dpi) and millimeters. Font sizes come from
// the layout in pixels while positions are in millimeters, so both units
// appear in the placement tables.
const (
	MmPerPx = 25.4 / 96.0
	PxPerMm = 96.0 / 25.4
)

// FieldPlacement positions one text box on a card template.
// Placements are fixed at build time and never user-editable.
type FieldPlacement struct {
	Field      string
	Label      string // literal prefix rendered before the bound value
	XMm        float64
	YMm        float64
	CenterX    bool // center the box horizontally; XMm is ignored
	FontFamily string
	FontSizePx float64
	Color      string // #RRGGBB
	Align      Align
	MaxWidthMm float64 // wrap text when > 0
	LineHeight float64 // fraction of the font size between wrapped lines; 0 = 1.0
}

// PhotoPlacement positions the member photo rectangle.
type PhotoPlacement struct {
	XMm         float64
	YMm         float64
	WidthMm     float64
	HeightMm    float64
	CenterX     bool
	BorderColor string
}

// CardTemplate is the compiled-in layout for one level and size.
type CardTemplate struct {
	Level      string
	Size       Size
	WidthMm    float64
	HeightMm   float64
	Background string // background asset key; empty renders on plain white
	Photo      PhotoPlacement
	Fields     []FieldPlacement
}

// Large-format card dimensions.
const (
	largeWidthMm  = 146.3
	largeHeightMm = 221.8
)

// Wallet-format card dimensions.
const (
	walletWidthMm  = 56.0
	walletHeightMm = 88.0
)

// Ink colors used by the layouts.
const (
	colorAccent = "#C01E2C"
	colorBody   = "#000000"
	colorFooter = "#FFFFFF"
	colorBorder = "#8D8D8D"
)

// largeFields is the large-format placement table. The coordinates are
// millimeter positions on the printed card and must stay identical between
// the raster and document export paths.
var largeFields = []FieldPlacement{
	{Field: FieldName, CenterX: true, YMm: 111.2, FontFamily: "Vidaloka", FontSizePx: 31.5, Color: colorAccent, Align: AlignCenter},
	{Field: FieldDesignation, CenterX: true, YMm: 121, FontFamily: "Roboto", FontSizePx: 16, Color: colorAccent, Align: AlignCenter},
	{Field: FieldDeanery, Label: ": ", XMm: 54, YMm: 128, FontFamily: "Gafata", FontSizePx: 24.2, Color: colorBody, Align: AlignLeft},
	{Field: FieldParish, Label: ": ", XMm: 54, YMm: 136.1, FontFamily: "Gafata", FontSizePx: 24.2, Color: colorBody, Align: AlignLeft},
	{Field: FieldDateOfBaptism, Label: ": ", XMm: 54, YMm: 144.12, FontFamily: "Gafata", FontSizePx: 24.2, Color: colorBody, Align: AlignLeft},
	{Field: FieldDateOfBirth, Label: ": ", XMm: 54, YMm: 152.4, FontFamily: "Gafata", FontSizePx: 24.2, Color: colorBody, Align: AlignLeft},
	{Field: FieldPhone, Label: ": ", XMm: 54, YMm: 160.68, FontFamily: "Gafata", FontSizePx: 24.2, Color: colorBody, Align: AlignLeft},
	{Field: FieldFatherName, Label: ": ", XMm: 54, YMm: 168.96, FontFamily: "Gafata", FontSizePx: 24.2, Color: colorBody, Align: AlignLeft},
	{Label: ":", XMm: 54, YMm: 177.24, FontFamily: "Gafata", FontSizePx: 24.2, Color: colorBody, Align: AlignLeft},
	{Field: FieldPostalAddress, XMm: 56.9, YMm: 177.5, FontFamily: "Gafata", FontSizePx: 24.2, Color: colorBody, Align: AlignLeft, MaxWidthMm: 82, LineHeight: 0.965},
	{Field: FieldFooter, CenterX: true, YMm: 213, FontFamily: "Roboto", FontSizePx: 19, Color: colorFooter, Align: AlignCenter, MaxWidthMm: 100},
}

var largePhoto = PhotoPlacement{
	YMm:         42.5,
	WidthMm:     58,
	HeightMm:    67,
	CenterX:     true,
	BorderColor: colorBorder,
}

// walletFields is the wallet-format table: a labeled line per field under a
// full-width photo band.
var walletFields = []FieldPlacement{
	{Field: FieldName, Label: "Name: ", XMm: 2.6, YMm: 56.0, FontFamily: "Roboto", FontSizePx: 12, Color: colorBody, Align: AlignLeft},
	{Field: FieldFatherName, Label: "Father: ", XMm: 2.6, YMm: 60.3, FontFamily: "Roboto", FontSizePx: 12, Color: colorBody, Align: AlignLeft},
	{Field: FieldMotherName, Label: "Mother: ", XMm: 2.6, YMm: 64.6, FontFamily: "Roboto", FontSizePx: 12, Color: colorBody, Align: AlignLeft},
	{Field: FieldDateOfBirth, Label: "DOB: ", XMm: 2.6, YMm: 68.9, FontFamily: "Roboto", FontSizePx: 12, Color: colorBody, Align: AlignLeft},
	{Field: FieldDateOfBaptism, Label: "Baptism: ", XMm: 2.6, YMm: 73.2, FontFamily: "Roboto", FontSizePx: 12, Color: colorBody, Align: AlignLeft},
	{Field: FieldPhone, Label: "Phone: ", XMm: 2.6, YMm: 77.5, FontFamily: "Roboto", FontSizePx: 12, Color: colorBody, Align: AlignLeft},
	{Field: FieldPostalAddress, Label: "Address: ", XMm: 2.6, YMm: 81.8, FontFamily: "Roboto", FontSizePx: 10, Color: colorBody, Align: AlignLeft, MaxWidthMm: 50.8},
	{Field: FieldFooter, CenterX: true, YMm: 86.2, FontFamily: "Roboto", FontSizePx: 7, Color: colorBody, Align: AlignCenter},
}

var walletTemplate = CardTemplate{
	Level:   "parish",
	Size:    SizeWallet,
	WidthMm: walletWidthMm, HeightMm: walletHeightMm,
	Photo: PhotoPlacement{
		XMm: 2.6, YMm: 2.6,
		WidthMm: 50.8, HeightMm: 50.2,
		BorderColor: colorBorder,
	},
	Fields: walletFields,
}

// largeTemplates holds exactly one large-format template per level value.
var largeTemplates = map[string]CardTemplate{
	"parish":  largeTemplate("parish", "Parish"),
	"deanery": largeTemplate("deanery", "Deanery"),
	"dexco":   largeTemplate("dexco", "Dexco"),
}

func largeTemplate(level, background string) CardTemplate {
	return CardTemplate{
		Level:   level,
		Size:    SizeLarge,
		WidthMm: largeWidthMm, HeightMm: largeHeightMm,
		Background: background,
		Photo:      largePhoto,
		Fields:     largeFields,
	}
}

// Resolve returns the template for the given size and level. The level match
// is exact and case-sensitive; any other value (including empty) falls back
// to the parish template. The fallback is deliberate, not an error.
func Resolve(size Size, level string) CardTemplate {
	if size == SizeWallet {
		return walletTemplate
	}
	if t, ok := largeTemplates[level]; ok {
		return t
	}
	return largeTemplates["parish"]
}

// ResolveTemplate returns the large-format template for a level.
func ResolveTemplate(level string) CardTemplate {
	return Resolve(SizeLarge, level)
}

// ParseSize maps a request parameter to a Size, defaulting to large.
func ParseSize(s string) Size {
	if s == string(SizeWallet) {
		return SizeWallet
	}
	return SizeLarge
}
