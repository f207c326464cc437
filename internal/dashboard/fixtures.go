package dashboard

import "fmt"

func processAnalytics(req PageRequest) View {
	batch := req.Query.Get("batch")
	if batch == "" {
		batch = DefaultBatch
	}

	kpis := []KPI{
		{Name: "Reactor Temperature", Current: 37.2, Target: 37.0, Previous: 37.1, Unit: "°C", Status: "normal"},
		{Name: "Pressure", Current: 2.1, Target: 2.0, Previous: 1.9, Unit: "bar", Status: "high"},
		{Name: "Flow Rate", Current: 45.8, Target: 45.0, Previous: 44.5, Unit: "L/min", Status: "normal"},
		{Name: "pH Level", Current: 5.8, Target: 7.0, Previous: 6.8, Status: "critical", Highlight: true},
		{Name: "Biomass", Current: 12.4, Target: 12.0, Previous: 11.2, Unit: "g/L", Status: "normal", Highlight: true},
	}

	stats := make([]Stat, 0, len(kpis))
	for _, k := range kpis {
		trend := "down"
		if k.Rising() {
			trend = "up"
		}
		stats = append(stats, Stat{
			Label:  k.Name,
			Value:  k.Reading(),
			Detail: fmt.Sprintf("vs target %s, vs previous batch %s (%s)", Percent(k.Variance()), Percent(k.BatchChange()), trend),
			Status: k.Status,
		})
	}

	return View{
		Subtitle: "Batch: " + batch,
		Stats:    stats,
		Sections: []Section{{
			Title:   "Process Parameters",
			Columns: []string{"Time", "Temperature", "Pressure", "Flow Rate", "pH", "Biomass", "Previous pH", "Previous Biomass"},
			Rows: []Row{
				{Cells: []string{"00:00", "36.8", "1.95", "44.2", "5.8", "10.8", "6.7", "10.2"}},
				{Cells: []string{"00:30", "37.0", "1.98", "44.8", "5.8", "11.2", "6.8", "10.5"}},
				{Cells: []string{"01:00", "37.1", "2.02", "45.1", "5.8", "11.6", "6.8", "10.8"}},
				{Cells: []string{"01:30", "37.3", "2.05", "45.5", "5.8", "12.0", "6.9", "11.0"}},
				{Cells: []string{"02:00", "37.2", "2.08", "45.8", "5.8", "12.3", "6.8", "11.1"}},
				{Cells: []string{"02:30", "37.0", "2.1", "46.0", "5.8", "12.5", "6.7", "11.2"}},
				{Cells: []string{"03:00", "37.2", "2.1", "45.8", "5.8", "12.4", "6.8", "11.2"}},
			},
		}, {
			Title:   "Next Steps",
			Columns: []string{"Action"},
			Rows: []Row{
				{Cells: []string{"Root cause analysis"}, Status: "critical", Link: "/root-cause-analysis"},
				{Cells: []string{"Historical data"}, Link: "/historical-data"},
				{Cells: []string{"Parameter trends"}, Link: "/parameter-trends"},
			},
		}},
	}
}

func rootCause(PageRequest) View {
	return View{
		Subtitle: "pH Level 5.8 against target 7.0",
		Sections: []Section{{
			Title:   "Probable Reasons",
			Columns: []string{"Reason", "Probability", "Description", "Indicators", "Recommended Action"},
			Rows: []Row{
				{Cells: []string{"Excessive Lactate Accumulation", "85%", "High lactate production due to glucose overflow metabolism", "Lactate > 4.5 g/L; Glucose consumption rate increased; Cell viability declining", "Optimize feeding strategy and glucose concentration"}, Status: "critical"},
				{Cells: []string{"CO2 Sparging Issues", "72%", "Insufficient CO2 control leading to pH buffering problems", "CO2 flow rate below setpoint; Dissolved CO2 levels low; Base addition frequency increased", "Check CO2 supply and sparging system"}, Status: "warning"},
				{Cells: []string{"Medium Buffering Capacity", "68%", "Inadequate buffer concentration in culture medium", "Buffer consumption rate high; pH swings during feeding; Base addition spikes", "Increase medium buffer concentration"}, Status: "warning"},
				{Cells: []string{"Contamination Event", "45%", "Bacterial contamination producing organic acids", "Cell morphology changes; Unexpected metabolite patterns; Gram stain positive", "Perform contamination screening and microscopy"}, Status: "normal"},
			},
		}, {
			Title:   "Related Views",
			Columns: []string{"View"},
			Rows: []Row{
				{Cells: []string{"Historical data"}, Link: "/historical-data"},
				{Cells: []string{"Parameter trends"}, Link: "/parameter-trends"},
			},
		}},
	}
}

// Report is an entry on the automatic reports page.
type Report struct {
	ID        string
	Name      string
	Type      string
	Status    string
	Generated string
	Size      string
}

func (r Report) Completed() bool {
	return r.Status == "completed"
}

func Reports() []Report {
	return []Report{
		{ID: "monthly-process-summary", Name: "Monthly Process Summary", Type: "Process", Status: "completed", Generated: "2 hours ago", Size: "2.4 MB"},
		{ID: "quality-control-report", Name: "Quality Control Report", Type: "Quality", Status: "generating", Generated: "In progress", Size: "Pending"},
		{ID: "analytical-method-validation", Name: "Analytical Method Validation", Type: "Validation", Status: "completed", Generated: "1 day ago", Size: "5.2 MB"},
		{ID: "batch-production-report", Name: "Batch Production Report", Type: "Production", Status: "scheduled", Generated: "Tomorrow 9:00 AM", Size: "Scheduled"},
	}
}

func ReportByID(id string) (Report, bool) {
	for _, r := range Reports() {
		if r.ID == id {
			return r, true
		}
	}
	return Report{}, false
}

func reportsPage(req PageRequest) View {
	reports := Reports()
	rows := make([]Row, 0, len(reports))
	for _, r := range reports {
		row := Row{Cells: []string{r.Name, r.Type, r.Status, r.Generated, r.Size}, Status: r.Status}
		if req.ArchiveEnabled && r.Completed() {
			row.Link = "/reports/" + r.ID + "/download"
		}
		rows = append(rows, row)
	}

	templates := []string{
		"Process Validation Report",
		"Stability Study Report",
		"Method Transfer Report",
		"Deviation Investigation",
		"Equipment Qualification",
		"Training Record Summary",
	}
	templateRows := make([]Row, 0, len(templates))
	for _, name := range templates {
		templateRows = append(templateRows, Row{Cells: []string{name}})
	}

	return View{
		Stats: []Stat{
			{Label: "Reports Today", Value: "12"},
			{Label: "Pending", Value: "3", Status: "warning"},
		},
		Sections: []Section{
			{Title: "Recent Reports", Description: "Latest generated and scheduled reports", Columns: []string{"Name", "Type", "Status", "Generated", "Size"}, Rows: rows},
			{Title: "Available Templates", Description: "Pre-configured report templates for common analyses", Columns: []string{"Template"}, Rows: templateRows},
		},
	}
}

func investigationsPage(PageRequest) View {
	return View{
		Stats: []Stat{
			{Label: "Active Cases", Value: "8"},
			{Label: "Resolved", Value: "45", Status: "normal"},
		},
		Sections: []Section{{
			Title:   "Investigations",
			Columns: []string{"ID", "Title", "Priority", "Status", "Assignee", "Created", "Description"},
			Rows: []Row{
				{Cells: []string{"INV-2024-015", "Batch Yield Deviation", "high", "active", "Dr. Sarah Chen", "2 days ago", "Investigating 15% yield decrease in batch production"}, Status: "active"},
				{Cells: []string{"INV-2024-014", "HPLC Method Validation", "medium", "review", "Dr. Mike Rodriguez", "5 days ago", "Method validation for new analytical procedure"}, Status: "review"},
				{Cells: []string{"INV-2024-013", "Temperature Excursion", "low", "completed", "Dr. Lisa Wang", "1 week ago", "Root cause analysis of storage temperature deviation"}, Status: "completed"},
			},
		}},
	}
}

func predictivePage(PageRequest) View {
	return View{
		Stats: []Stat{
			{Label: "Models", Value: "15"},
			{Label: "Accuracy", Value: "94.2%", Status: "normal"},
		},
		Sections: []Section{{
			Title:   "Prediction Models",
			Columns: []string{"Model", "Type", "Accuracy", "Status", "Last Run", "Predictions"},
			Rows: []Row{
				{Cells: []string{"Batch Quality Predictor", "Classification", "94.2%", "active", "2 hours ago", "156"}, Status: "active"},
				{Cells: []string{"Equipment Failure Prediction", "Time Series", "91.8%", "active", "6 hours ago", "89"}, Status: "active"},
				{Cells: []string{"Process Optimization Model", "Regression", "88.5%", "training", "Training...", "0"}, Status: "training"},
				{Cells: []string{"Yield Forecast Model", "Neural Network", "96.1%", "paused", "1 day ago", "234"}, Status: "paused"},
			},
		}},
	}
}

func processControlPage(PageRequest) View {
	return View{
		Sections: []Section{{
			Title:   "Control Systems",
			Columns: []string{"System", "Status", "Setpoint", "Current", "Variance", "Efficiency"},
			Rows: []Row{
				{Cells: []string{"Reactor Temperature Control", "active", "75°C", "74.8°C", "±0.2°C", "98.5%"}, Status: "active"},
				{Cells: []string{"pH Control System", "maintenance", "7.2", "Offline", "N/A", "0%"}, Status: "maintenance"},
				{Cells: []string{"Flow Rate Controller", "active", "150 L/min", "149.2 L/min", "±2.1%", "97.8%"}, Status: "active"},
				{Cells: []string{"Pressure Control", "active", "2.5 bar", "2.48 bar", "±0.8%", "99.2%"}, Status: "active"},
			},
		}, {
			Title:   "Optimizations",
			Columns: []string{"Process", "Current", "Optimized", "Improvement", "Status"},
			Rows: []Row{
				{Cells: []string{"Batch Cycle Time", "8.5 hours", "7.2 hours", "15.3%", "implemented"}, Status: "implemented"},
				{Cells: []string{"Energy Consumption", "245 kWh", "198 kWh", "19.2%", "testing"}, Status: "testing"},
				{Cells: []string{"Raw Material Usage", "450 kg", "425 kg", "5.6%", "pending"}, Status: "pending"},
			},
		}},
	}
}

func digitalOpsPage(PageRequest) View {
	return View{
		Sections: []Section{{
			Title:   "Workflows",
			Columns: []string{"Workflow", "Status", "Progress", "Time Remaining", "Stage"},
			Rows: []Row{
				{Cells: []string{"Batch Release Process", "active", "85%", "2.5 hours", "Quality Review"}, Status: "active"},
				{Cells: []string{"Equipment Qualification", "pending", "45%", "5 days", "IQ Documentation"}, Status: "pending"},
				{Cells: []string{"Change Control Review", "completed", "100%", "Completed", "Approved"}, Status: "completed"},
				{Cells: []string{"Deviation Investigation", "active", "60%", "3 days", "Root Cause Analysis"}, Status: "active"},
			},
		}, {
			Title:   "Automation",
			Columns: []string{"Process", "Automated", "Manual"},
			Rows: []Row{
				{Cells: []string{"Document Routing", "92%", "8%"}},
				{Cells: []string{"Approval Workflows", "78%", "22%"}},
				{Cells: []string{"Data Collection", "95%", "5%"}},
				{Cells: []string{"Report Generation", "88%", "12%"}},
			},
		}},
	}
}

func labOpsPage(PageRequest) View {
	return View{
		Stats: []Stat{
			{Label: "Active Tests", Value: "156"},
			{Label: "Completed", Value: "1,234", Status: "normal"},
		},
		Sections: []Section{{
			Title:   "Active Tests",
			Columns: []string{"ID", "Name", "Type", "Status", "Progress", "Duration", "Remaining", "Analyst"},
			Rows: []Row{
				{Cells: []string{"TST-2024-0315", "Stability Study - Batch 240315", "Stability", "running", "65%", "6 months", "2.1 months", "Dr. Jennifer Kim"}, Status: "running"},
				{Cells: []string{"TST-2024-0316", "Potency Assay - QC Release", "Potency", "completed", "100%", "3 days", "Complete", "Dr. Robert Chen"}, Status: "completed"},
				{Cells: []string{"TST-2024-0317", "Biocompatibility Testing", "Safety", "pending", "0%", "4 weeks", "Scheduled", "Dr. Maria Lopez"}, Status: "pending"},
				{Cells: []string{"TST-2024-0318", "Method Development - HPLC", "Method Dev", "running", "45%", "2 weeks", "1.1 weeks", "Dr. Alex Thompson"}, Status: "running"},
			},
		}, {
			Title:   "Equipment",
			Columns: []string{"Instrument", "Status", "Utilization", "Next Maintenance"},
			Rows: []Row{
				{Cells: []string{"HPLC System A-1", "available", "75%", "5 days"}, Status: "available"},
				{Cells: []string{"Mass Spec MS-2", "in-use", "90%", "12 days"}, Status: "in-use"},
				{Cells: []string{"GC System G-3", "maintenance", "0%", "In progress"}, Status: "maintenance"},
				{Cells: []string{"FTIR Analyzer F-1", "available", "60%", "8 days"}, Status: "available"},
				{Cells: []string{"UV-Vis Spec UV-1", "in-use", "85%", "3 days"}, Status: "in-use"},
				{Cells: []string{"Karl Fischer KF-1", "available", "40%", "15 days"}, Status: "available"},
			},
		}},
	}
}

func historicalPage(PageRequest) View {
	return View{
		Sections: []Section{{
			Title:   "Similar Deviations",
			Columns: []string{"Date", "Batch", "pH", "Biomass", "Lactate", "Glucose", "Viable Cells", "Root Cause"},
			Rows: []Row{
				{Cells: []string{"2024-01-10", "B2024-015", "6.3", "11.2", "5.2", "2.1", "85.2", "Lactate Accumulation"}},
				{Cells: []string{"2023-12-22", "B2023-387", "6.5", "10.8", "4.8", "1.8", "82.1", "CO2 Control Issue"}},
				{Cells: []string{"2023-11-08", "B2023-312", "6.2", "9.5", "6.1", "0.9", "76.8", "Medium Buffer Depletion"}},
				{Cells: []string{"2023-09-15", "B2023-258", "6.4", "12.1", "4.9", "2.3", "88.5", "Feeding Strategy"}},
			},
		}},
	}
}

type trendPoint struct {
	time                        string
	current, historical, target float64
}

var parameterTrends = map[string][]trendPoint{
	"glucose": {
		{"12:00", 3.2, 3.5, 3.0},
		{"13:00", 2.8, 3.1, 3.0},
		{"14:00", 2.1, 2.8, 3.0},
		{"14:30", 1.8, 2.5, 3.0},
	},
	"lactate": {
		{"12:00", 3.8, 3.2, 2.5},
		{"13:00", 4.2, 3.6, 2.5},
		{"14:00", 4.8, 4.1, 2.5},
		{"14:30", 5.2, 4.3, 2.5},
	},
	"viableCells": {
		{"12:00", 92.5, 94.2, 95.0},
		{"13:00", 89.8, 92.1, 95.0},
		{"14:00", 86.2, 89.5, 95.0},
		{"14:30", 83.1, 87.2, 95.0},
	},
}

func trendsPage(req PageRequest) View {
	param := req.Query.Get("parameter")
	points, ok := parameterTrends[param]
	if !ok {
		param = "glucose"
		points = parameterTrends[param]
	}

	rows := make([]Row, 0, len(points))
	for _, p := range points {
		// lactate is bad when high, the others when low
		off := p.current < p.target
		if param == "lactate" {
			off = p.current > p.target
		}
		status := "normal"
		if off {
			status = "warning"
		}
		rows = append(rows, Row{
			Cells:  []string{p.time, fmt.Sprintf("%g", p.current), fmt.Sprintf("%g", p.historical), fmt.Sprintf("%g", p.target)},
			Status: status,
		})
	}

	switchRows := make([]Row, 0, len(parameterTrends))
	for _, name := range []string{"glucose", "lactate", "viableCells"} {
		switchRows = append(switchRows, Row{Cells: []string{name}, Link: "/parameter-trends?parameter=" + name})
	}

	return View{
		Subtitle: "Parameter: " + param,
		Sections: []Section{
			{Title: "Critical Parameter Trends", Description: "Leading indicators before pH deviation occurred", Columns: []string{"Time", "Current", "Historical", "Target"}, Rows: rows},
			{Title: "Parameters", Columns: []string{"Parameter"}, Rows: switchRows},
		},
	}
}
