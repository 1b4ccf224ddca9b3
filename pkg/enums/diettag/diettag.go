package diettag

import "strings"

type Tag struct {
	Name string
}

func (t Tag) Code() string {
	return t.Name
}

func (t Tag) Label() string {
	parts := strings.Split(t.Name, "-")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, " ")
}

type Enum struct {
	Vegetarian  Tag
	Vegan       Tag
	GlutenFree  Tag
	DairyFree   Tag
	NutFree     Tag
	LowCarb     Tag
	Pescatarian Tag
	Halal       Tag
	Kosher      Tag
}

var Tags = Enum{
	Vegetarian:  Tag{Name: "vegetarian"},
	Vegan:       Tag{Name: "vegan"},
	GlutenFree:  Tag{Name: "gluten-free"},
	DairyFree:   Tag{Name: "dairy-free"},
	NutFree:     Tag{Name: "nut-free"},
	LowCarb:     Tag{Name: "low-carb"},
	Pescatarian: Tag{Name: "pescatarian"},
	Halal:       Tag{Name: "halal"},
	Kosher:      Tag{Name: "kosher"},
}

var All = []Tag{
	Tags.Vegetarian,
	Tags.Vegan,
	Tags.GlutenFree,
	Tags.DairyFree,
	Tags.NutFree,
	Tags.LowCarb,
	Tags.Pescatarian,
	Tags.Halal,
	Tags.Kosher,
}

// ByName returns the tag for a given name, or nil if not found
func ByName(name string) *Tag {
	for _, t := range All {
		if t.Name == name {
			return &t
		}
	}
	return nil
}
