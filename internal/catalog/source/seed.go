package source

import (
	"rxcampus/internal/catalog/models"
)

// SeedDemoCatalog loads the demo program set used when CONTENT_SOURCE=memory.
func SeedDemoCatalog(s *InMemory) {
	s.AddProgram(models.Program{
		Slug:          "mtm-certification",
		Name:          "Medication Therapy Management Certification",
		Tagline:       "Build a revenue-generating MTM practice",
		Description:   "Comprehensive training covering comprehensive medication reviews, targeted interventions, documentation, and billing for MTM services in community pharmacy.",
		Audience:      "Pharmacists and pharmacy residents",
		Duration:      "8 weeks",
		CEUs:          "16.0",
		Accreditation: "ACPE",
		DisplayOrder:  1,
		Active:        true,
	})
	s.AddProgram(models.Program{
		Slug:          "immunization-delivery",
		Name:          "Immunization Administration Training",
		Tagline:       "From vaccine storage to shot technique",
		Description:   "Hands-on certification program covering immunization schedules, cold chain management, administration technique, and adverse event response.",
		Audience:      "Pharmacists and certified technicians",
		Duration:      "4 weeks",
		CEUs:          "8.0",
		Accreditation: "ACPE",
		DisplayOrder:  2,
		Active:        true,
	})
	s.AddProgram(models.Program{
		Slug:          "medical-billing-fundamentals",
		Name:          "Pharmacy Medical Billing Fundamentals",
		Tagline:       "Get paid for clinical services",
		Description:   "Practical billing curriculum for pharmacist-provided clinical services, from credentialing through claim submission and denial management.",
		Audience:      "Pharmacy owners and billing staff",
		Duration:      "6 weeks",
		CEUs:          "12.0",
		Accreditation: "ACPE",
		DisplayOrder:  3,
		Active:        true,
	})
	s.AddProgram(models.Program{
		Slug:         "legacy-compounding",
		Name:         "Sterile Compounding Refresher",
		DisplayOrder: 9,
		Active:       false,
	})

	s.AddModule(models.TrainingModule{
		ProgramSlug: "mtm-certification",
		Number:      1,
		Title:       "Foundations of MTM",
		Summary:     "Service models, eligibility, and the business case.",
		Duration:    "90 minutes",
		Objectives: []string{
			"Describe the five core elements of an MTM service",
			"Identify patients eligible under Medicare Part D criteria",
		},
	})
	s.AddModule(models.TrainingModule{
		ProgramSlug: "mtm-certification",
		Number:      2,
		Title:       "Comprehensive Medication Review",
		Summary:     "Conducting and documenting the CMR interview.",
		Duration:    "2 hours",
		Objectives: []string{
			"Conduct a structured CMR interview",
			"Produce a personal medication list and medication action plan",
		},
	})
	s.AddModule(models.TrainingModule{
		ProgramSlug: "immunization-delivery",
		Number:      1,
		Title:       "Vaccine Storage and Handling",
		Summary:     "Cold chain requirements and excursion response.",
		Duration:    "60 minutes",
		Objectives: []string{
			"Maintain refrigerator and freezer logs to CDC standards",
			"Execute an excursion response plan",
		},
	})
}
