package data

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed names/*.json addresses/*.json companies/*.json
var dataFiles embed.FS

// Vocabulary holds the pt-BR word lists used to fake people, places and
// companies
type Vocabulary struct {
	FirstNames FirstNamesData
	LastNames  LastNamesData
	Cities     CitiesData
	Streets    StreetsData
	Companies  CompaniesData

	// Lookup maps for efficient access
	citiesByState map[string][]City
	states        []string
}

// FirstNamesData represents the structure of first_names.json
type FirstNamesData struct {
	Male   []string `json:"male"`
	Female []string `json:"female"`
}

// LastNamesData represents the structure of last_names.json
type LastNamesData struct {
	Names []string `json:"names"`
}

// CitiesData represents the structure of cities.json
type CitiesData struct {
	PostalFormat string `json:"postal_format"`
	Cities       []City `json:"cities"`
}

// City represents a single city's data
type City struct {
	City         string `json:"city"`
	State        string `json:"state"`
	AreaCode     string `json:"area_code"`
	PostalPrefix string `json:"postal_prefix"`
}

// StreetsData represents the structure of streets.json
type StreetsData struct {
	Types     []string `json:"types"`
	Names     []string `json:"names"`
	Districts []string `json:"districts"`
}

// CompaniesData represents the structure of companies.json
type CompaniesData struct {
	Names        []string `json:"names"`
	Families     []string `json:"families"`
	Suffixes     []string `json:"suffixes"`
	EmailDomains []string `json:"email_domains"`
	CompanyTLDs  []string `json:"company_tlds"`
}

var (
	instance *Vocabulary
	once     sync.Once
	loadErr  error
)

// Load loads the vocabulary from embedded files.
// This is thread-safe and will only load data once
func Load() (*Vocabulary, error) {
	once.Do(func() {
		instance = &Vocabulary{}
		loadErr = instance.loadAll()
	})

	if loadErr != nil {
		return nil, loadErr
	}
	return instance, nil
}

// loadAll loads all data files
func (v *Vocabulary) loadAll() error {
	files := []struct {
		path   string
		target any
	}{
		{"names/first_names.json", &v.FirstNames},
		{"names/last_names.json", &v.LastNames},
		{"addresses/cities.json", &v.Cities},
		{"addresses/streets.json", &v.Streets},
		{"companies/companies.json", &v.Companies},
	}

	for _, f := range files {
		raw, err := dataFiles.ReadFile(f.path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f.path, err)
		}
		if err := json.Unmarshal(raw, f.target); err != nil {
			return fmt.Errorf("failed to parse %s: %w", f.path, err)
		}
	}

	if err := v.validate(); err != nil {
		return err
	}

	v.buildLookups()
	return nil
}

// validate rejects empty lists so pickers never see an empty slice
func (v *Vocabulary) validate() error {
	lists := map[string]int{
		"first_names.male":        len(v.FirstNames.Male),
		"first_names.female":      len(v.FirstNames.Female),
		"last_names.names":        len(v.LastNames.Names),
		"cities.cities":           len(v.Cities.Cities),
		"streets.types":           len(v.Streets.Types),
		"streets.names":           len(v.Streets.Names),
		"streets.districts":       len(v.Streets.Districts),
		"companies.names":         len(v.Companies.Names),
		"companies.suffixes":      len(v.Companies.Suffixes),
		"companies.email_domains": len(v.Companies.EmailDomains),
	}
	for name, n := range lists {
		if n == 0 {
			return fmt.Errorf("vocabulary list %s is empty", name)
		}
	}
	return nil
}

// buildLookups creates efficient lookup structures
func (v *Vocabulary) buildLookups() {
	v.citiesByState = make(map[string][]City)
	for _, c := range v.Cities.Cities {
		if _, seen := v.citiesByState[c.State]; !seen {
			v.states = append(v.states, c.State)
		}
		v.citiesByState[c.State] = append(v.citiesByState[c.State], c)
	}
}

// GetFirstNames returns first names for a gender
func (v *Vocabulary) GetFirstNames(isMale bool) []string {
	if isMale {
		return v.FirstNames.Male
	}
	return v.FirstNames.Female
}

// GetLastNames returns all last names
func (v *Vocabulary) GetLastNames() []string {
	return v.LastNames.Names
}

// AllCities returns every city in file order
func (v *Vocabulary) AllCities() []City {
	return v.Cities.Cities
}

// GetCities returns cities for a state abbreviation
func (v *Vocabulary) GetCities(state string) ([]City, bool) {
	cities, ok := v.citiesByState[state]
	return cities, ok
}

// States returns state abbreviations in first-seen order
func (v *Vocabulary) States() []string {
	return v.states
}

// PostalFormat returns the postal code mask ('#' is a digit)
func (v *Vocabulary) PostalFormat() string {
	return v.Cities.PostalFormat
}
