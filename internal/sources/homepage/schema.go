package homepage

// ServicesConfig is the top-level structure of a Homepage services.yaml.
// Group and service names are dynamic keys:
//
//	- Group:
//	    - Service Name:
//	        href: https://service.domain.ext
//	        icon: service.png
type ServicesConfig []map[string][]map[string]ServiceProps

// ServiceProps holds the properties of one service. Only href and icon are
// used; the rest is parsed so unknown fields do not fail the load.
type ServiceProps struct {
	Href        string         `yaml:"href"`
	Icon        string         `yaml:"icon,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Target      string         `yaml:"target,omitempty"`
	Ping        string         `yaml:"ping,omitempty"`
	SiteMonitor string         `yaml:"siteMonitor,omitempty"`
	Widget      map[string]any `yaml:"widget,omitempty"`
}
