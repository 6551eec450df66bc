package models

// BusinessCategory supplies default business parameters for revenue estimates.
type BusinessCategory struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Icon           string  `json:"icon" yaml:"icon"`
	AvgJobValue    float64 `json:"avg_job_value" yaml:"avg_job_value"`
	ConversionRate float64 `json:"conversion_rate" yaml:"conversion_rate"`
}

// DefaultCategories is the built-in category list used when neither the
// config file nor the database provide one.
var DefaultCategories = []BusinessCategory{
	{ID: "plumbing", Name: "Plumbing", Icon: "wrench", AvgJobValue: 350, ConversionRate: 0.05},
	{ID: "hvac", Name: "HVAC", Icon: "thermometer", AvgJobValue: 500, ConversionRate: 0.04},
	{ID: "roofing", Name: "Roofing", Icon: "home", AvgJobValue: 8500, ConversionRate: 0.02},
	{ID: "electrical", Name: "Electrical", Icon: "zap", AvgJobValue: 300, ConversionRate: 0.05},
	{ID: "landscaping", Name: "Landscaping", Icon: "leaf", AvgJobValue: 250, ConversionRate: 0.04},
	{ID: "legal", Name: "Legal Services", Icon: "scale", AvgJobValue: 3500, ConversionRate: 0.02},
	{ID: "dental", Name: "Dental", Icon: "smile", AvgJobValue: 800, ConversionRate: 0.03},
	{ID: "pest-control", Name: "Pest Control", Icon: "bug", AvgJobValue: 200, ConversionRate: 0.06},
}
