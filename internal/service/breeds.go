package service

import "strings"

// Breeds is the fixed searchable list offered by the quiz's breed dropdown.
var Breeds = []string{
	"Affenpinscher",
	"Akita",
	"Basset Hound",
	"Beagle",
	"Bichón Frisé",
	"Border Collie",
	"Boston Terrier",
	"Boxer",
	"Bulldog Francés",
	"Bulldog Inglés",
	"Bull Terrier",
	"Chihuahua",
	"Chow Chow",
	"Cocker Spaniel",
	"Dálmata",
	"Doberman",
	"Dogo Argentino",
	"Fox Terrier",
	"Golden Retriever",
	"Gran Danés",
	"Husky Siberiano",
	"Jack Russell Terrier",
	"Labrador",
	"Maltés",
	"Mestizo",
	"Pastor Alemán",
	"Pequinés",
	"Pitbull",
	"Pomerania",
	"Poodle",
	"Pug",
	"Rottweiler",
	"Salchicha (Dachshund)",
	"Samoyedo",
	"San Bernardo",
	"Schnauzer",
	"Shar Pei",
	"Shih Tzu",
	"Terranova",
	"Weimaraner",
	"Yorkshire Terrier",
	"Otro",
}

// SearchBreeds filters the breed list by a case-insensitive substring match.
// An empty query returns the full list.
func SearchBreeds(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return Breeds
	}
	var out []string
	for _, b := range Breeds {
		if strings.Contains(strings.ToLower(b), query) {
			out = append(out, b)
		}
	}
	return out
}
