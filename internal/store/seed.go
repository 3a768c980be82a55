package store

import (
	"github.com/MrSnakeDoc/desk/internal/domain"
	"github.com/MrSnakeDoc/desk/internal/layout"
)

// DefaultViewportHeight fits eight rows of small icons.
const DefaultViewportHeight = 600

type seedIcon struct {
	id   string
	icon domain.IconRecord
}

func pack(name string) string { return "icons/pack/" + name + ".png" }

// defaultIcons is the starter desktop, in display order.
var defaultIcons = []seedIcon{
	{"jenkins", domain.IconRecord{Name: "Jenkins", ImageSrc: domain.DefaultImageSrc}},
	{"grafana", domain.IconRecord{Name: "Grafana", ImageSrc: pack("grafana")}},
	{"prometheus", domain.IconRecord{Name: "Prometheus", ImageSrc: pack("prometheus")}},
	{"alertmanager", domain.IconRecord{Name: "Alertmanager", ImageSrc: "icons/alertmanager.png"}},
	{"gitlab", domain.IconRecord{Name: "Gitlab", ImageSrc: pack("gitlab")}},
	{"proxmox", domain.IconRecord{Name: "Proxmox", ImageSrc: pack("proxmox")}},
	{"kibana", domain.IconRecord{Name: "Kibana", ImageSrc: pack("kibana")}},
	{"gitea", domain.IconRecord{Name: "Gitea", ImageSrc: pack("gitea")}},
	{"agentdvr", domain.IconRecord{Name: "AgentDVR", ImageSrc: domain.DefaultImageSrc}},
	{"portainer", domain.IconRecord{Name: "Portainer", ImageSrc: pack("placeholder")}},
	{"docker", domain.IconRecord{Name: "Docker", ImageSrc: pack("docker")}},
	{"kubernetes", domain.IconRecord{Name: "Kubernetes", ImageSrc: pack("kubernetes")}},
	{"ansible", domain.IconRecord{Name: "Ansible", ImageSrc: domain.DefaultImageSrc}},
	{"terraform", domain.IconRecord{Name: "Terraform", ImageSrc: pack("terraform")}},
	{"vault", domain.IconRecord{Name: "Vault", ImageSrc: pack("vault")}},
	{"consul", domain.IconRecord{Name: "Consul", ImageSrc: domain.DefaultImageSrc}},
	{"etcd", domain.IconRecord{Name: "etcd", ImageSrc: domain.DefaultImageSrc}},
	{"zabbix", domain.IconRecord{Name: "Zabbix", ImageSrc: pack("zabbix")}},
	{"nagios", domain.IconRecord{Name: "Nagios", ImageSrc: domain.DefaultImageSrc}},
	{"rancher", domain.IconRecord{Name: "Rancher", ImageSrc: domain.DefaultImageSrc}},
	{"openshift", domain.IconRecord{Name: "OpenShift", ImageSrc: pack("openshift")}},
}

// DefaultConfiguration returns the starter desktop laid out on the small grid.
func DefaultConfiguration(viewportHeight int) *domain.Configuration {
	cfg := domain.Empty()
	ids := make([]string, 0, len(defaultIcons))
	for _, s := range defaultIcons {
		cfg.Icons[s.id] = s.icon.WithDefaults(s.id)
		ids = append(ids, s.id)
	}
	cfg.Positions = layout.ArrangeGrid(ids, cfg.Size, viewportHeight, layout.DefaultPadding)
	return cfg
}
