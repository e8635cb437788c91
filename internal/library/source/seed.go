package source

import (
	"time"

	"rxcampus/internal/library/models"
	id "rxcampus/pkg/domain"
)

// SeedDemoLibrary loads the demo resource set used when CONTENT_SOURCE=memory.
func SeedDemoLibrary(s *InMemory) {
	seededAt := time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)

	s.Add(
		models.Resource{
			ID:          "recPMAAAAAAAAAA01",
			Category:    id.CategoryProtocolManuals,
			Title:       "MTM Service Protocol Manual",
			Description: "Step-by-step workflow for delivering comprehensive medication reviews.",
			FileURL:     "https://files.rxcampus.dev/protocol-manuals/mtm-protocol.pdf",
			FileName:    "mtm-protocol.pdf",
			FileType:    "application/pdf",
			FileSize:    482311,
			ProgramSlug: "mtm-certification",
			Tags:        []string{"mtm", "workflow"},
			UpdatedAt:   seededAt,
		},
		models.Resource{
			ID:          "recPMAAAAAAAAAA02",
			Category:    id.CategoryProtocolManuals,
			Title:       "Immunization Standing Orders",
			Description: "Template standing orders for pharmacist-administered vaccines.",
			FileURL:     "https://files.rxcampus.dev/protocol-manuals/standing-orders.pdf",
			FileName:    "standing-orders.pdf",
			FileType:    "application/pdf",
			FileSize:    120904,
			ProgramSlug: "immunization-delivery",
			Tags:        []string{"immunizations"},
			UpdatedAt:   seededAt,
		},
		models.Resource{
			ID:          "recDFAAAAAAAAAA01",
			Category:    id.CategoryDocumentationForms,
			Title:       "CMR Documentation Form",
			Description: "Printable form for documenting a comprehensive medication review.",
			FileURL:     "https://files.rxcampus.dev/documentation-forms/cmr-form.pdf",
			FileName:    "cmr-form.pdf",
			FileType:    "application/pdf",
			FileSize:    88012,
			ProgramSlug: "mtm-certification",
			Tags:        []string{"mtm", "documentation"},
			UpdatedAt:   seededAt,
		},
		models.Resource{
			ID:          "recARAAAAAAAAAA01",
			Category:    id.CategoryAdditionalResource,
			Title:       "State Collaborative Practice Index",
			Description: "Links to collaborative practice agreement rules by state.",
			Tags:        []string{"regulatory"},
			UpdatedAt:   seededAt,
		},
		models.Resource{
			ID:          "recPHAAAAAAAAAA01",
			Category:    id.CategoryPatientHandouts,
			Title:       "Blood Pressure Tracking Log",
			Description: "Patient-facing log sheet for home blood pressure readings.",
			FileURL:     "https://files.rxcampus.dev/patient-handouts/bp-log.pdf",
			FileName:    "bp-log.pdf",
			FileType:    "application/pdf",
			FileSize:    40233,
			Tags:        []string{"hypertension", "patient education"},
			UpdatedAt:   seededAt,
		},
		models.Resource{
			ID:          "recCGAAAAAAAAAA01",
			Category:    id.CategoryClinicalGuidelines,
			Title:       "Hypertension Management Quick Reference",
			Description: "Condensed treatment algorithm for community pharmacy use.",
			FileURL:     "https://files.rxcampus.dev/clinical-guidelines/htn-quick-reference.pdf",
			FileName:    "htn-quick-reference.pdf",
			FileType:    "application/pdf",
			FileSize:    230184,
			Tags:        []string{"hypertension", "guidelines"},
			UpdatedAt:   seededAt,
		},
		models.Resource{
			ID:          "recMBAAAAAAAAAA01",
			Category:    id.CategoryMedicalBilling,
			Title:       "CPT Codes for Pharmacist Services",
			Description: "Billable CPT codes with documentation requirements.",
			FileURL:     "https://files.rxcampus.dev/medical-billing/cpt-codes.xlsx",
			FileName:    "cpt-codes.xlsx",
			FileType:    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			FileSize:    51200,
			ProgramSlug: "medical-billing-fundamentals",
			Tags:        []string{"billing", "cpt"},
			UpdatedAt:   seededAt,
		},
	)
}
