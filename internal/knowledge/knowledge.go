// File: internal/knowledge/knowledge.go
package knowledge

import "fmt"

// Disease pairs a disease name with its advisory text.
type Disease struct {
	Name     string
	Advisory string
}

// Crop is a crop name plus its diseases in a fixed iteration order.
type Crop struct {
	Name     string
	Diseases []Disease
}

// Base is the immutable crop -> disease -> advisory lookup table. It is an
// ordered list, not a map: matching is first-match-wins and the winner must
// be the same on every run, so iteration order is part of the data.
type Base struct {
	crops []Crop
}

// New builds a Base from an ordered crop list.
func New(crops []Crop) (*Base, error) {
	if len(crops) == 0 {
		return nil, fmt.Errorf("knowledge base requires at least one crop")
	}
	for _, c := range crops {
		if c.Name == "" {
			return nil, fmt.Errorf("knowledge base contains a crop with no name")
		}
		if len(c.Diseases) == 0 {
			return nil, fmt.Errorf("crop %q has no diseases", c.Name)
		}
	}
	return &Base{crops: crops}, nil
}

// CropNames returns the known crop names in iteration order.
func (b *Base) CropNames() []string {
	names := make([]string, 0, len(b.crops))
	for _, c := range b.crops {
		names = append(names, c.Name)
	}
	return names
}

// Default returns the built-in taxonomy: corn, potato, rice and wheat with
// their advisory texts, including the "healthy" entries.
func Default() *Base {
	base, err := New([]Crop{
		{Name: "corn", Diseases: []Disease{
			{Name: "common rust", Advisory: "Cause: Fungus (Puccinia sorghi). Symptoms: reddish-brown pustules on leaves. Control: resistant varieties, fungicides."},
			{Name: "gray leaf spot", Advisory: "Cause: Fungus (Cercospora zeae-maydis). Symptoms: gray rectangular lesions. Control: resistant hybrids, fungicides."},
			{Name: "leaf blight", Advisory: "Cause: Fungus (Exserohilum turcicum). Symptoms: cigar-shaped lesions. Control: resistant hybrids, fungicides."},
			{Name: "healthy", Advisory: "Green leaves, no lesions, normal growth."},
		}},
		{Name: "potato", Diseases: []Disease{
			{Name: "early blight", Advisory: "Cause: Fungus (Alternaria solani). Symptoms: concentric dark spots. Control: crop rotation, fungicides."},
			{Name: "late blight", Advisory: "Cause: Oomycete (Phytophthora infestans). Symptoms: water-soaked lesions, white mold. Control: resistant varieties, fungicides."},
			{Name: "healthy", Advisory: "Green leaves, no dark spots."},
		}},
		{Name: "rice", Diseases: []Disease{
			{Name: "brown spot", Advisory: "Cause: Fungus (Bipolaris oryzae). Symptoms: brown circular spots with yellow halo. Control: seed treatment, fungicides."},
			{Name: "hispa", Advisory: "Cause: Insect (Dicladispa armigera). Symptoms: scraping on leaves, small holes. Control: insecticides, resistant varieties."},
			{Name: "leaf blast", Advisory: "Cause: Fungus (Magnaporthe oryzae). Symptoms: diamond-shaped lesions. Control: resistant varieties, fungicides."},
			{Name: "healthy", Advisory: "No lesions, normal green leaves."},
		}},
		{Name: "wheat", Diseases: []Disease{
			{Name: "brown rust", Advisory: "Cause: Fungus (Puccinia triticina). Symptoms: orange-brown pustules. Control: resistant varieties, fungicides."},
			{Name: "yellow rust", Advisory: "Cause: Fungus (Puccinia striiformis). Symptoms: yellow stripes of pustules. Control: resistant varieties, fungicides."},
			{Name: "healthy", Advisory: "Uniform green leaves, no pustules."},
		}},
	})
	if err != nil {
		// The built-in table is well-formed; reaching this is a programming error.
		panic(err)
	}
	return base
}
