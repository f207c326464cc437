package dashboard

import (
	"net/url"
	"strings"
)

// DefaultBatch is shown when the process analytics page gets no batch parameter.
const DefaultBatch = "BATCH-2024-315"

// PageRequest carries what a page builder may look at.
type PageRequest struct {
	Query url.Values
	// ArchiveEnabled marks completed reports as downloadable.
	ArchiveEnabled bool
}

type Stat struct {
	Label  string
	Value  string
	Detail string
	Status string
}

type Row struct {
	Cells  []string
	Status string
	Link   string
}

type Section struct {
	Title       string
	Description string
	Columns     []string
	Rows        []Row
}

// View is the rendered content of a dashboard page.
type View struct {
	Title       string
	Description string
	Subtitle    string
	Stats       []Stat
	Sections    []Section
}

// Page is a static dashboard page reachable from the route table.
type Page struct {
	Path        string
	Title       string
	Description string
	build       func(PageRequest) View
}

func (p Page) Build(req PageRequest) View {
	v := View{Title: p.Title, Description: p.Description}
	if p.build != nil {
		built := p.build(req)
		built.Title, built.Description = v.Title, v.Description
		v = built
	}
	return v
}

func Pages() []Page {
	return []Page{
		{Path: "/process-analytics", Title: "Real Time Process Monitoring", Description: "Live monitoring of critical process parameters", build: processAnalytics},
		{Path: "/root-cause-analysis", Title: "Root Cause Analysis", Description: "pH deviation analysis with probable causes ranked by likelihood", build: rootCause},
		{Path: "/automatic-reports", Title: "Automatic Reports", Description: "Generate and manage automated reports for compliance and analysis", build: reportsPage},
		{Path: "/deep-investigations", Title: "Deep Investigations", Description: "Advanced investigation tools for scientific analysis and troubleshooting", build: investigationsPage},
		{Path: "/predictive-analytics", Title: "Predictive Analytics", Description: "AI-powered predictive modeling and advanced analytics", build: predictivePage},
		{Path: "/process-control", Title: "Process Control & Optimization", Description: "Operational control and optimization tools for process efficiency", build: processControlPage},
		{Path: "/digital-operations", Title: "Digital Operations Management", Description: "Business process digitalization and workflow monitoring", build: digitalOpsPage},
		{Path: "/lab-operations", Title: "Digital Lab Operations Management", Description: "Digital laboratory management and operations oversight", build: labOpsPage},
		{Path: "/historical-data", Title: "Historical Data", Description: "Previous batches with similar pH deviations", build: historicalPage},
		{Path: "/parameter-trends", Title: "Parameter Trends", Description: "Critical parameter analysis before pH deviation occurred", build: trendsPage},
	}
}

// PageByPath finds a page definition by its exact route path.
func PageByPath(path string) (Page, bool) {
	for _, p := range Pages() {
		if p.Path == path {
			return p, true
		}
	}
	return Page{}, false
}

// Name is the route name of the page.
func (p Page) Name() string {
	return strings.TrimPrefix(p.Path, "/")
}
