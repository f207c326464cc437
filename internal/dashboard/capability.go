package dashboard

import (
	"net/url"

	"pharma-console/internal/domain"
)

type CapabilityStatus string

const (
	CapabilityActive      CapabilityStatus = "active"
	CapabilityMaintenance CapabilityStatus = "maintenance"
	CapabilityOffline     CapabilityStatus = "offline"
)

type Metric struct {
	Label  string
	Value  string
	Status string
}

type Batches struct {
	Running []string
	Queued  []string
}

// Capability is a launchable tile on the home screen.
type Capability struct {
	Title       string
	Description string
	Status      CapabilityStatus
	Path        string
	Metrics     []Metric
	Batches     *Batches
}

// Launchable reports whether the access button is enabled.
func (c Capability) Launchable() bool {
	return c.Status != CapabilityOffline
}

// Href is the link for the tile, optionally preselecting a batch.
func (c Capability) Href(batch string) string {
	if batch == "" {
		return c.Path
	}
	return c.Path + "?" + url.Values{"batch": {batch}}.Encode()
}

func Capabilities() []Capability {
	return []Capability{
		{
			Title:       "Real Time Process Monitoring",
			Description: "Live monitoring of critical process parameters and system performance",
			Status:      CapabilityActive,
			Path:        "/process-analytics",
			Batches: &Batches{
				Running: []string{"MBE17060-64", "MBE17060-065", "MBE17060-066", "MBE17060-067", "MBE17060-068"},
				Queued:  []string{"MBE17060-110", "MBE17060-111", "MBE17060-112", "MBE17060-113"},
			},
		},
		{
			Title:       "Automatic Reports",
			Description: "Generate comprehensive reports for compliance and analysis",
			Status:      CapabilityActive,
			Path:        "/automatic-reports",
			Metrics:     []Metric{{Label: "Reports Today", Value: "12"}, {Label: "Pending", Value: "3"}},
		},
		{
			Title:       "Deep Investigations",
			Description: "Advanced investigation tools for scientific analysis and troubleshooting",
			Status:      CapabilityActive,
			Path:        "/deep-investigations",
			Metrics:     []Metric{{Label: "Active Cases", Value: "8"}, {Label: "Resolved", Value: "45"}},
		},
		{
			Title:       "Predictive Analytics",
			Description: "AI-powered predictive modeling and advanced analytics",
			Status:      CapabilityActive,
			Path:        "/predictive-analytics",
			Metrics:     []Metric{{Label: "Models", Value: "15"}, {Label: "Accuracy", Value: "94.2%"}},
		},
		{
			Title:       "Process Control",
			Description: "Operational control and optimization tools for process efficiency",
			Status:      CapabilityMaintenance,
			Path:        "/process-control",
			Metrics:     []Metric{{Label: "Optimizations", Value: "6"}, {Label: "Efficiency", Value: "+12%"}},
		},
		{
			Title:       "Digital Operations",
			Description: "Business process digitalization and workflow monitoring",
			Status:      CapabilityActive,
			Path:        "/digital-operations",
			Metrics:     []Metric{{Label: "Workflows", Value: "28"}, {Label: "Automated", Value: "85%"}},
		},
		{
			Title:       "Lab Operations",
			Description: "Digital laboratory management and operations oversight",
			Status:      CapabilityActive,
			Path:        "/lab-operations",
			Metrics:     []Metric{{Label: "Active Tests", Value: "156"}, {Label: "Completed", Value: "1,234"}},
		},
	}
}

type Activity struct {
	Title  string
	Detail string
	When   string
	Status string
}

// Home is the data behind the signed-in landing screen.
type Home struct {
	User         domain.User
	AreaName     string
	AreaFocus    string
	AreaTone     string
	QuickStats   []Metric
	Capabilities []Capability
	Activity     []Activity
}

func NewHome(user domain.User) Home {
	return Home{
		User:      user,
		AreaName:  user.ProcessArea.FullName(),
		AreaFocus: user.ProcessArea.Focus(),
		AreaTone:  user.ProcessArea.Tone(),
		QuickStats: []Metric{
			{Label: "Active Systems", Value: "24"},
			{Label: "Running Tests", Value: "156", Status: "normal"},
			{Label: "Investigations", Value: "8", Status: "warning"},
			{Label: "Alerts", Value: "3", Status: "critical"},
		},
		Capabilities: Capabilities(),
		Activity: []Activity{
			{Title: "Batch Analysis Completed", Detail: "Batch #2024-0315 passed all quality checks", When: "2 hours ago", Status: "completed"},
			{Title: "System Maintenance Scheduled", Detail: "Process Control system will be offline for 2 hours", When: "4 hours ago", Status: "warning"},
			{Title: "Monthly Report Generated", Detail: "Process efficiency report for March 2024", When: "1 day ago", Status: "info"},
		},
	}
}
