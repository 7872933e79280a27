package knowledge

import "leaf-analyze-service/models"

// seedRecords builds the static disease records. Severity is fixed per
// class and never derived from prediction confidence.
func seedRecords() []models.DiseaseRecord {
	return []models.DiseaseRecord{
		{
			Name:        DiseaseHealthy,
			Description: "The leaf appears healthy with no visible signs of disease. Continue regular monitoring and preventive care.",
			Severity:    models.SeverityNone,
			Treatments: []models.NanoTreatment{
				{
					Name:          "Silica Nanoparticles",
					Type:          "Oxide-based",
					Concentration: "100-150 ppm",
					Effectiveness: "N/A (Preventive)",
					Application:   "Monthly foliar spray to boost plant immunity",
				},
			},
		},
		{
			Name:        DiseaseBlight,
			Description: "A fungal disease caused by Exserohilum turcicum. Elongated, tan lesions reduce yield significantly in humid climates.",
			Severity:    models.SeverityHigh,
			Treatments: []models.NanoTreatment{
				{
					Name:          "Copper Nanoparticles",
					Type:          "Metal-based",
					Concentration: "50-100 ppm",
					Effectiveness: "95%",
					Application:   "Spray every 7-10 days during infection",
				},
				{
					Name:          "Silver Nanoparticles",
					Type:          "Metal-based",
					Concentration: "25-50 ppm",
					Effectiveness: "88%",
					Application:   "Root zone application twice weekly",
				},
				{
					Name:          "Chitosan-Silver Hybrid NPs",
					Type:          "Bio-metallic",
					Concentration: "75-125 ppm",
					Effectiveness: "92%",
					Application:   "Targeted spray every 5 days",
				},
			},
		},
		{
			Name:        DiseaseRust,
			Description: "Caused by Puccinia sorghi. It creates reddish-brown pustules and spreads in humid, moderate temperatures.",
			Severity:    models.SeverityMedium,
			Treatments: []models.NanoTreatment{
				{
					Name:          "Silica Nanoparticles",
					Type:          "Oxide-based",
					Concentration: "200-300 ppm",
					Effectiveness: "82%",
					Application:   "Bi-weekly spray during rust season",
				},
				{
					Name:          "Zinc Oxide Nanoparticles",
					Type:          "Oxide-based",
					Concentration: "75-150 ppm",
					Effectiveness: "78%",
					Application:   "Soil + foliar combo",
				},
				{
					Name:          "Magnesium Oxide NPs",
					Type:          "Oxide-based",
					Concentration: "100-200 ppm",
					Effectiveness: "85%",
					Application:   "Apply early morning for best results",
				},
			},
		},
		{
			Name:        DiseaseGraySpot,
			Description: "Caused by Cercospora zeae-maydis. It forms rectangular lesions and thrives in hot, humid environments.",
			Severity:    models.SeverityMedium,
			Treatments: []models.NanoTreatment{
				{
					Name:          "Titanium Dioxide Nanoparticles",
					Type:          "Oxide-based",
					Concentration: "100-200 ppm",
					Effectiveness: "85%",
					Application:   "UV-activated foliar spray during sunny days",
				},
				{
					Name:          "Copper-Silver Hybrid NPs",
					Type:          "Bimetallic",
					Concentration: "40-80 ppm",
					Effectiveness: "92%",
					Application:   "Spray every 5-7 days on affected areas",
				},
				{
					Name:          "Selenium Nanoparticles",
					Type:          "Metalloid-based",
					Concentration: "20-40 ppm",
					Effectiveness: "89%",
					Application:   "Foliar spray with surfactant",
				},
			},
		},
	}
}

// DefaultRawClasses is the class order produced by the training pipeline
// (alphabetical by training directory name). The stub classifier uses it
// when no model artifact supplies its own ordering.
func DefaultRawClasses() []string {
	return []string{"Blight", "Common_Rust", "Gray_Leaf_Spot", "Healthy"}
}
