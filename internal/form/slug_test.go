package form

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Ayam Kampung Segar!!":      "ayam-kampung-segar",
		"  Beras   Premium 5 KG ":   "beras-premium-5-kg",
		"Telur -- Omega 3":          "telur-omega-3",
		"--Minyak_Goreng (1L)--":    "minyakgoreng-1l",
		"Sayur Bayam\tHijau\nSegar": "sayur-bayam-hijau-segar",
		"Kopi Arabika Gayo ☕":       "kopi-arabika-gayo",
		"!!!":                       "",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSlugifyIsIdempotentAndWellFormed(t *testing.T) {
	inputs := []string{
		"Ayam Kampung Segar!!",
		"A  B--C",
		" -x- ",
		"Mixed CASE 123 & Punct.",
		"Ünïcödé Bünch",
		"",
	}
	for _, input := range inputs {
		once := Slugify(input)
		if twice := Slugify(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", input, once, twice)
		}
		if once != "" && !IsSlug(once) {
			t.Fatalf("malformed slug for %q: %q", input, once)
		}
	}
}
