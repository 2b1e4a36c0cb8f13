package web

import (
	"net/http"
	"strconv"
	"time"

	profileStore "idcard/internal/adapters/storage/profile"
	"idcard/internal/application/orchestrators"
	auditDomain "idcard/internal/domain/audit"
	profileDomain "idcard/internal/domain/profile"
)

const dateOnly = "2006-01-02"

// profileJSON is the wire form of a profile. Dates travel as YYYY-MM-DD
// strings; empty means unset.
type profileJSON struct {
	ID               string `json:"id,omitempty"`
	Name             string `json:"name"`
	FatherName       string `json:"father_name"`
	MotherName       string `json:"mother_name"`
	DateOfBirth      string `json:"date_of_birth"`
	DateOfBaptism    string `json:"date_of_baptism"`
	IssueDate        string `json:"issue_date"`
	PostalAddress    string `json:"postal_address"`
	Parish           string `json:"parish"`
	Deanery          string `json:"deanery"`
	Qualification    string `json:"qualification"`
	Phone            string `json:"phone"`
	InvolvementSince string `json:"involvement_since"`
	Level            string `json:"level"`
	Designation      string `json:"designation"`
	Photo            string `json:"photo"`
	CreatedAt        string `json:"created_at,omitempty"`
	UpdatedAt        string `json:"updated_at,omitempty"`
}

func parseWireDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateOnly, s)
}

func formatWireDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateOnly)
}

func formatWireTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func profileToWire(p profileDomain.Record) profileJSON {
	return profileJSON{
		ID:               p.ID,
		Name:             p.Name,
		FatherName:       p.FatherName,
		MotherName:       p.MotherName,
		DateOfBirth:      formatWireDate(p.DateOfBirth),
		DateOfBaptism:    formatWireDate(p.DateOfBaptism),
		IssueDate:        formatWireDate(p.IssueDate),
		PostalAddress:    p.PostalAddress,
		Parish:           p.Parish,
		Deanery:          p.Deanery,
		Qualification:    p.Qualification,
		Phone:            p.Phone,
		InvolvementSince: p.InvolvementSince,
		Level:            p.Level,
		Designation:      p.Designation,
		Photo:            p.Photo,
		CreatedAt:        formatWireTimestamp(p.CreatedAt),
		UpdatedAt:        formatWireTimestamp(p.UpdatedAt),
	}
}

func profileFromWire(in profileJSON) (profileDomain.Record, error) {
	dob, err := parseWireDate(in.DateOfBirth)
	if err != nil {
		return profileDomain.Record{}, err
	}
	baptism, err := parseWireDate(in.DateOfBaptism)
	if err != nil {
		return profileDomain.Record{}, err
	}
	issue, err := parseWireDate(in.IssueDate)
	if err != nil {
		return profileDomain.Record{}, err
	}
	return profileDomain.Record{
		ID:               in.ID,
		Name:             in.Name,
		FatherName:       in.FatherName,
		MotherName:       in.MotherName,
		DateOfBirth:      dob,
		DateOfBaptism:    baptism,
		IssueDate:        issue,
		PostalAddress:    in.PostalAddress,
		Parish:           in.Parish,
		Deanery:          in.Deanery,
		Qualification:    in.Qualification,
		Phone:            in.Phone,
		InvolvementSince: in.InvolvementSince,
		Level:            in.Level,
		Designation:      in.Designation,
		Photo:            in.Photo,
	}, nil
}

// profileListFilter reads the manage screen's query parameters.
func profileListFilter(r *http.Request) profileStore.ListFilter {
	q := r.URL.Query()
	return profileStore.ListFilter{
		Search:      q.Get("search"),
		Deanery:     q.Get("deanery"),
		Parish:      q.Get("parish"),
		Level:       q.Get("level"),
		Designation: q.Get("designation"),
		Sort:        q.Get("sort"),
		Dir:         q.Get("dir"),
	}
}

// handleProfiles handles GET (list) and POST (create) for /api/profiles
func handleProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		if _, ok := requireSession(w, r); !ok {
			return
		}

		q := r.URL.Query()
		page := 1
		if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
			page = p
		}
		limit := 20
		if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l <= 200 {
			limit = l
		}

		filter := profileListFilter(r)
		filter.Limit = limit
		filter.Offset = (page - 1) * limit

		records, err := stores.ProfileStore.List(ctx, filter)
		if err != nil {
			internalError(w, err)
			return
		}
		total, err := stores.ProfileStore.Count(ctx, filter)
		if err != nil {
			internalError(w, err)
			return
		}

		wire := make([]profileJSON, 0, len(records))
		for _, p := range records {
			wire = append(wire, profileToWire(p))
		}
		totalPages := (total + limit - 1) / limit
		respondJSON(w, http.StatusOK, map[string]any{
			"profiles": wire,
			"pagination": map[string]int{
				"page":        page,
				"limit":       limit,
				"total":       total,
				"total_pages": totalPages,
			},
		})
		return
	}

	if r.Method == "POST" {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		var input profileJSON
		if err := strictDecode(r, &input); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		input.ID = "" // create only; updates go through PUT /api/profiles/{id}
		record, err := profileFromWire(input)
		if err != nil {
			respondError(w, http.StatusBadRequest, "dates must be YYYY-MM-DD")
			return
		}

		id, err := orchestrators.ExecuteSaveProfile(ctx, orchestrators.SaveProfileInput{Profile: record},
			orchestrators.SaveProfileDeps{ProfileStore: stores.ProfileStore})
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		recordAudit(r, auditDomain.NewEvent(sess.AccountID, sess.Email, sess.Role, auditDomain.CategoryProfile, auditDomain.ActionCreate).
			WithResource("profile", id).
			WithDescription(record.Name))
		saved, err := stores.ProfileStore.GetByID(ctx, id)
		if err != nil {
			internalError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, profileToWire(saved))
		return
	}

	respondError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// handleProfileByID handles GET, PUT and DELETE for /api/profiles/{id}
func handleProfileByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "profile id is required")
		return
	}

	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		p, err := stores.ProfileStore.GetByID(ctx, id)
		if err != nil {
			respondError(w, http.StatusNotFound, "profile not found")
			return
		}
		respondJSON(w, http.StatusOK, profileToWire(p))

	case "PUT":
		var input profileJSON
		if err := strictDecode(r, &input); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		input.ID = id
		record, err := profileFromWire(input)
		if err != nil {
			respondError(w, http.StatusBadRequest, "dates must be YYYY-MM-DD")
			return
		}

		_, err = orchestrators.ExecuteSaveProfile(ctx, orchestrators.SaveProfileInput{Profile: record},
			orchestrators.SaveProfileDeps{ProfileStore: stores.ProfileStore})
		if err == orchestrators.ErrProfileNotFound {
			respondError(w, http.StatusNotFound, "profile not found")
			return
		}
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		recordAudit(r, auditDomain.NewEvent(sess.AccountID, sess.Email, sess.Role, auditDomain.CategoryProfile, auditDomain.ActionUpdate).
			WithResource("profile", id).
			WithDescription(record.Name))
		saved, err := stores.ProfileStore.GetByID(ctx, id)
		if err != nil {
			internalError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, profileToWire(saved))

	case "DELETE":
		err := orchestrators.ExecuteDeleteProfile(ctx, id,
			orchestrators.SaveProfileDeps{ProfileStore: stores.ProfileStore})
		if err == orchestrators.ErrProfileNotFound {
			respondError(w, http.StatusNotFound, "profile not found")
			return
		}
		if err != nil {
			internalError(w, err)
			return
		}
		recordAudit(r, auditDomain.NewEvent(sess.AccountID, sess.Email, sess.Role, auditDomain.CategoryProfile, auditDomain.ActionDelete).
			WithResource("profile", id))
		respondJSON(w, http.StatusOK, nil)

	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleFilterOptions handles GET /api/profiles/filter-options
func handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}
	opts, err := stores.ProfileStore.FilterOptions(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	// Snapshot the deanery table through the domain accessors so the
	// response never aliases the shared directory slices.
	deaneryNames := profileDomain.Deaneries()
	directory := make(map[string][]string, len(deaneryNames))
	for _, d := range deaneryNames {
		directory[d] = profileDomain.ParishesIn(d)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"deaneries":     opts.Deaneries,
		"parishes":      opts.Parishes,
		"levels":        opts.Levels,
		"designations":  opts.Designations,
		"deanery_names": deaneryNames,
		"directory":     directory,
	})
}
