package models

// Department is one of the fixed organisational pillars. Departments are
// reference data and never stored.
type Department struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Departments lists every pillar in display order.
var Departments = []Department{
	{ID: 1, Name: "PSDM", Color: "#84A98C"},
	{ID: 2, Name: "INOVASI", Color: "#64748B"},
	{ID: 3, Name: "MEDIA", Color: "#FF7F50"},
	{ID: 4, Name: "ADVOKESMA", Color: "#F28B82"},
	{ID: 5, Name: "HUMAS", Color: "#6FA8DC"},
	{ID: 6, Name: "EKRAF", Color: "#F1C40F"},
	{ID: 7, Name: "SENI OR", Color: "#9B59B6"},
	{ID: 8, Name: "JAMINAN MUTU", Color: "#0D9488"},
}

// FindDepartment looks up a pillar by id.
func FindDepartment(id int) (Department, bool) {
	for _, d := range Departments {
		if d.ID == id {
			return d, true
		}
	}
	return Department{}, false
}

// DepartmentName returns the pillar name or "" for unknown ids.
func DepartmentName(id int) string {
	d, _ := FindDepartment(id)
	return d.Name
}

// DefaultActivityType is used when an event omits its category.
const DefaultActivityType = "Rapat Rutin"

// ActivityTypes are the categories offered by the event form. Other values are accepted.
var ActivityTypes = []string{"Rapat Rutin", "Rapat Besar", "Technical Meeting", "Gladi Kotor", "Gladi Bersih", "Hari H (Eksekusi)", "Lainnya"}

// Divisions are the committee sub-groups an event can be scoped to.
var Divisions = []string{"Panitia Inti", "Acara", "DDM", "Humas", "Logistik", "Konsumsi", "Korlap", "Seluruh Panitia"}
