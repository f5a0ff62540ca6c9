// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package slug

// Home is the category served at the root path.
const Home = "Inicio"

// Categories is the fixed, ordered list of portal sections.
var Categories = []string{
	Home,
	"Nacionales",
	"Encuestas",
	"Política RD",
	"Actividad Semanal",
	"Internacional",
	"Deportes",
	"Entretenimiento",
	"Economía",
	"Tecnología",
	"Opinión",
	"Contacto",
}

// pathOverrides pins the canonical path of sections whose URLs were
// published before the mechanical transform was introduced.
var pathOverrides = map[string]string{
	"Política RD":       "/politica-rd",
	"Actividad Semanal": "/actividad-semanal",
}

// IsCategory reports whether name is one of Categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// CategoryPath maps a category label to its browser path.
func CategoryPath(category string) string {
	if category == Home {
		return "/"
	}
	if p, ok := pathOverrides[category]; ok {
		return p
	}
	return "/" + whitespaceRe.ReplaceAllString(foldAccents(category), "-")
}

// CategoryForPath maps a browser path back to its category. When no
// category matches, current is returned unchanged.
func CategoryForPath(path, current string) string {
	if path == "/" {
		return Home
	}
	for _, c := range Categories {
		if CategoryPath(c) == path {
			return c
		}
	}
	return current
}
