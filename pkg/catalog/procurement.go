package catalog

import "github.com/counciltech/intake/pkg/domain"

// Procurement returns the built-in council procurement catalog. It is used
// when no catalog file is configured.
func Procurement() *Catalog {
	return New(Catalog{
		Root: "existing_arrangement",
		Nodes: []domain.DecisionNode{
			{
				Name:     "existing_arrangement",
				Question: "Does an existing arrangement exist for this contract?",
				Options: []domain.DecisionOption{
					{Label: "RoPS", TerminalAnswer: "Use a Purchase Order and reference the RoPS."},
					{Label: "Preferred Supplier Arrangement (PSA) Name and Number", TerminalAnswer: "Use a Purchase Order and reference the PSA name and number."},
					{Label: "Other Council Arrangement", TerminalAnswer: "To be drafted."},
					{Label: "Local Buy", TerminalAnswer: "Issue a Notice of Successful Quotation/Tender Letter and set up a Purchase Order referencing the LB arrangement name and number."},
					{Label: "No", NextNode: "procurement_value"},
				},
			},
			{
				Name:     "procurement_value",
				Question: "What is the value of the procurement?",
				Options: []domain.DecisionOption{
					{Label: "Under $10,000", NextNode: "procurement_category", Range: &domain.NumericRange{Min: 0, Max: 10000}},
					{Label: "$10,000-$15,000", NextNode: "procurement_category", Range: &domain.NumericRange{Min: 10000, Max: 15000}},
					{Label: "$15,000-$200,000", NextNode: "procurement_category", Range: &domain.NumericRange{Min: 15000, Max: 200000}},
					{Label: "Over $200,000", NextNode: "procurement_category", Range: &domain.NumericRange{Min: 200000}},
				},
			},
			{
				Name:     "procurement_category",
				Question: "What category does the procurement fall within?",
				Options: []domain.DecisionOption{
					{Label: "Construction", NextNode: "construction_risk"},
					{Label: "Services Only", NextNode: "services_only"},
					{Label: "Goods and Services", NextNode: "goods_and_services_risk"},
					{Label: "Goods Only", TerminalAnswer: "Use a Goods and Services Contract."},
				},
			},
			{
				Name:     "construction_risk",
				Question: "What is the risk of the work being undertaken?",
				Options: []domain.DecisionOption{
					{Label: "Low", TerminalAnswer: "Set up a Purchase Order referencing the DSC Standard Terms and Conditions (Services) on the website."},
					{Label: "Medium", NextNode: "construction_scope"},
				},
			},
			{
				Name:     "construction_scope",
				Question: "What does the scope entail?",
				Options: []domain.DecisionOption{
					{Label: "Supply of equipment, building elements, etc. and/or Installation", TerminalAnswer: "Use a Supply and Install Contract."},
					{Label: "Construction work only", NextNode: "construction_complexity"},
				},
			},
			{
				Name:     "construction_complexity",
				Question: "What is the complexity of the work being carried out?",
				Options: []domain.DecisionOption{
					{Label: "Low", TerminalAnswer: "Use a Construct Only AS4000."},
					{Label: "Medium", TerminalAnswer: "Use the Minor Works contract (with or without design – AS4902)."},
					{Label: "High", NextNode: "construction_high_detail"},
				},
			},
			{
				Name:     "construction_high_detail",
				Question: "Are the services for a fixed period including broad consultancy services?",
				Options: []domain.DecisionOption{
					{Label: "Fixed period with Council provided design", TerminalAnswer: "Use a Construct Only AS4000."},
					{Label: "Fixed period with Contractor providing the design", TerminalAnswer: "Use a Design and Construct AS4902 Contract."},
					{Label: "Fixed period for Contractor Management services", TerminalAnswer: "Use an AS4000 Contract."},
					{Label: "Other consultancy services", TerminalAnswer: "Use a Services (Single Engagement) Contract."},
				},
			},
			{
				Name:     "services_only",
				Question: "Is the value within your credit card and transaction delegation?",
				Options: []domain.DecisionOption{
					{Label: "Yes", NextNode: "services_only_over_counter"},
					{Label: "No", TerminalAnswer: "Set up a Purchase Order referencing the DSC Standard Terms and Conditions (Goods and Services) on the website."},
				},
			},
			{
				Name:     "services_only_over_counter",
				Question: "Are the services normally purchased over the counter?",
				Options: []domain.DecisionOption{
					{Label: "Yes", TerminalAnswer: "Pay on Credit Card."},
					{Label: "No", TerminalAnswer: "Set up a Purchase Order referencing the DSC Standard Terms and Conditions (Goods and Services) on the website."},
				},
			},
			{
				Name:     "goods_and_services_risk",
				Question: "What is the risk of the scope of works?",
				Options: []domain.DecisionOption{
					{Label: "Low", TerminalAnswer: "Set up a Purchase Order referencing the DSC Standard Terms and Conditions (Goods and Services) on the website."},
					{Label: "Medium", TerminalAnswer: "Use a Goods and Services Contract."},
					{Label: "High", TerminalAnswer: "Use a Goods and Services Contract."},
				},
			},
		},
		Slots: []domain.SlotSpec{
			{
				Name:     "supplier_name",
				Prompt:   "Who is the supplier or organization for this procurement?",
				Kind:     domain.SlotFreeText,
				Required: true,
			},
			{
				Name:     "existing_arrangement",
				Prompt:   "Does an existing arrangement exist for this contract? (yes/no)",
				Kind:     domain.SlotYesNo,
				Required: true,
			},
			{
				Name:          "procurement_value",
				Prompt:        "What is the value of the procurement?",
				Kind:          domain.SlotChoice,
				AllowedValues: []string{"Under $10,000", "$10,000-$15,000", "$15,000-$200,000", "Over $200,000"},
				Required:      true,
			},
			{
				Name:          "category",
				Prompt:        "What category does the procurement fall within?",
				Kind:          domain.SlotChoice,
				AllowedValues: []string{"Construction", "Services Only", "Goods and Services", "Goods Only"},
				Required:      true,
			},
			{
				Name:   "reference_number",
				Prompt: "If you have a procurement reference number (e.g. REF12345), please provide it.",
				Kind:   domain.SlotReference,
				Prefix: "REF",
			},
		},
		Greetings: []string{"hi", "hello", "hey", "greetings", "good morning", "good afternoon", "good evening"},
		Farewells: []string{"bye", "goodbye", "see you", "farewell"},
	})
}
