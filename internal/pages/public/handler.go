// Package public serves the pages anyone can see: the landing page, the
// internship board, company profiles and the contact form.
package public

import (
	"net/http"
	"net/url"
	"sort"

	"internship-portal/internal/common/validation"
	"internship-portal/internal/models"
	"internship-portal/internal/pages"
	"internship-portal/internal/session"
	"internship-portal/internal/ui"
	"internship-portal/internal/web/render"
)

const latestOnHome = 6

type Handler struct {
	pages.Base
}

func NewHandler(deps pages.Dependencies) (*Handler, error) {
	base, err := pages.NewBase(deps, "public")
	if err != nil {
		return nil, err
	}
	return &Handler{Base: base}, nil
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /internships", h.Internships)
	mux.HandleFunc("GET /internships/{id}", h.InternshipDetail)
	mux.HandleFunc("GET /companies/{id}", h.CompanyDetail)
	mux.HandleFunc("GET /contact", h.ContactForm)
	mux.HandleFunc("POST /contact", h.SubmitContact)
}

type homeData struct {
	Latest   []models.Internship
	Settings *models.PublicSettings
	Error    string
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := homeData{}

	settings, err := h.Deps.API.PublicSettings(ctx)
	if err != nil {
		h.Log.Debug("public settings unavailable", map[string]interface{}{"error": err.Error()})
	}
	data.Settings = settings

	items, err := h.Deps.API.ListInternships(ctx, session.Token(ctx), models.InternshipQuery{Status: models.InternshipOpen})
	if err != nil {
		data.Error = h.Banner("home.list", err)
	} else {
		sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
		if len(items) > latestOnHome {
			items = items[:latestOnHome]
		}
		data.Latest = items
	}

	announcement := ""
	if settings != nil {
		announcement = settings.Announcement
	}
	h.Render(w, r, render.Page{
		Name:         "public/home",
		Title:        "Find your next internship",
		Nav:          "home",
		Error:        data.Error,
		Announcement: announcement,
		Data:         data,
	})
}

type listData struct {
	Items  []models.Internship
	Total  int
	Filter ui.InternshipFilter
	Pager  ui.Paginator
	Path   string
	Query  url.Values
}

// filterFromQuery reads the board filters. Search text and location also go
// to the backend; the eligibility flags are applied locally.
func filterFromQuery(q url.Values) ui.InternshipFilter {
	flag := func(key string) bool {
		v := q.Get(key)
		return v != "" && v != "0" && v != "false"
	}
	return ui.InternshipFilter{
		Query:           q.Get("q"),
		Location:        q.Get("location"),
		Status:          q.Get("status"),
		OPTOnly:         flag("opt"),
		CPTOnly:         flag("cpt"),
		CertificateOnly: flag("certificate"),
		RemoteOnly:      flag("remote"),
	}
}

func (h *Handler) Internships(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	filter := filterFromQuery(query)

	apiQuery := models.InternshipQuery{Search: filter.Query, Location: filter.Location}
	if status := models.InternshipStatus(filter.Status); status.IsValid() {
		apiQuery.Status = status
	}

	items, err := h.Deps.API.ListInternships(ctx, session.Token(ctx), apiQuery)
	if err != nil {
		h.Fail(w, r, "internships.list", err)
		return
	}

	// search, location and a known status were answered by the backend
	local := filter.Flags()
	if apiQuery.Status == "" {
		local.Status = filter.Status
	}
	matched := local.Apply(items)
	pager := ui.NewPaginator(len(matched), h.Deps.PageSize, pages.PageNumber(r))

	h.Render(w, r, render.Page{
		Name:  "public/internships",
		Title: "Internships",
		Nav:   "internships",
		Data: listData{
			Items:  ui.Slice(matched, pager),
			Total:  len(matched),
			Filter: filter,
			Pager:  pager,
			Path:   "/internships",
			Query:  query,
		},
	})
}

type detailData struct {
	Internship     *models.Internship
	Company        *models.CompanyProfile
	CanApply       bool
	AlreadyApplied bool
	Closed         bool
	IsOwner        bool
}

func (h *Handler) InternshipDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := pages.Session(r)
	token := session.Token(ctx)

	internship, err := h.Deps.API.GetInternship(ctx, token, r.PathValue("id"))
	if err != nil {
		h.Fail(w, r, "internships.detail", err)
		return
	}

	data := detailData{
		Internship: internship,
		Closed:     internship.Status != models.InternshipOpen || internship.DeadlinePassed(h.Deps.Now()),
	}

	if internship.CompanyID != "" {
		company, err := h.Deps.API.Company(ctx, internship.CompanyID)
		if err != nil {
			h.Log.Debug("company profile unavailable", map[string]interface{}{"companyId": internship.CompanyID, "error": err.Error()})
		}
		data.Company = company
	}

	if sess.HasRole(models.RoleStudent) {
		apps, err := h.Deps.API.MyApplications(ctx, token)
		if err != nil {
			h.Log.Debug("applications unavailable", map[string]interface{}{"error": err.Error()})
		}
		for _, a := range apps {
			if a.InternshipID == internship.ID && a.StudentStatus != models.StudentWithdrawn {
				data.AlreadyApplied = true
				break
			}
		}
		data.CanApply = !data.Closed && !data.AlreadyApplied
	}
	if sess.HasRole(models.RoleCompany) && sess.UserID != "" && data.Company != nil {
		data.IsOwner = data.Company.UserID == sess.UserID
	}

	h.Render(w, r, render.Page{
		Name:  "public/internship",
		Title: internship.Title,
		Nav:   "internships",
		Data:  data,
	})
}

type companyData struct {
	Company  *models.CompanyProfile
	Openings []models.Internship
}

func (h *Handler) CompanyDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	company, err := h.Deps.API.Company(ctx, r.PathValue("id"))
	if err != nil {
		h.Fail(w, r, "companies.detail", err)
		return
	}

	data := companyData{Company: company}
	items, err := h.Deps.API.ListInternships(ctx, session.Token(ctx), models.InternshipQuery{Status: models.InternshipOpen})
	if err != nil {
		h.Log.Debug("company openings unavailable", map[string]interface{}{"error": err.Error()})
	}
	for _, i := range items {
		if i.CompanyID == company.ID {
			data.Openings = append(data.Openings, i)
		}
	}

	h.Render(w, r, render.Page{
		Name:  "public/company",
		Title: company.Name,
		Nav:   "internships",
		Data:  data,
	})
}

type contactData struct {
	Form   models.ContactMessage
	Errors map[string]string
}

func (h *Handler) ContactForm(w http.ResponseWriter, r *http.Request) {
	data := contactData{}
	if sess := pages.Session(r); sess.IsAuthenticated() {
		data.Form.Name = sess.UserName
		data.Form.Email = sess.Email
	}
	h.Render(w, r, render.Page{Name: "public/contact", Title: "Contact us", Nav: "contact", Data: data})
}

func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	msg := models.ContactMessage{
		Name:    pages.FormString(r, "name"),
		Email:   pages.FormString(r, "email"),
		Subject: pages.FormString(r, "subject"),
		Message: pages.FormString(r, "message"),
	}

	result, err := validation.Validate(validation.FormContact, msg)
	if err != nil {
		h.Fail(w, r, "contact.validate", err)
		return
	}
	if !result.Valid {
		h.Render(w, r, render.Page{
			Name:   "public/contact",
			Title:  "Contact us",
			Nav:    "contact",
			Status: http.StatusUnprocessableEntity,
			Data:   contactData{Form: msg, Errors: result.FieldErrors()},
		})
		return
	}

	if h.Deps.Notifier != nil {
		if err := h.Deps.Notifier.SendContact(r.Context(), msg); err != nil {
			h.Render(w, r, render.Page{
				Name:   "public/contact",
				Title:  "Contact us",
				Nav:    "contact",
				Status: http.StatusBadGateway,
				Error:  h.Banner("contact.send", err),
				Data:   contactData{Form: msg},
			})
			return
		}
	}

	h.Flash(w, r, "/contact", session.FlashSuccess, "Thanks for reaching out. We will get back to you soon.")
}
