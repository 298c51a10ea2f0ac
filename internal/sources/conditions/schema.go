package conditions

// File is the top-level structure of conditions.yaml
//
//	default: Sunny
//	locations:
//	  - name: Seattle
//	    weather: Rainy
type File struct {
	Default   string          `yaml:"default"`
	Locations []LocationEntry `yaml:"locations"`
}

// LocationEntry is one named place with its current weather
type LocationEntry struct {
	Name    string `yaml:"name"`
	Weather string `yaml:"weather"`
}
