package extract

import "google.golang.org/genai"

// categoryDescription lists the default taxonomy the model may suggest
// from. Names must match the seeded default categories exactly.
const categoryDescription = "Suggested category based on the merchant. One of: 食費, 交通費, 日用品, 娯楽, 医療, 住居, その他"

const emailCategoryDescription = "Suggested category: 食費, 交通費, 日用品, 娯楽, 医療, 住居, 給与, その他"

// receiptSchema constrains the single-receipt extraction.
var receiptSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"amount": {
			Type:        genai.TypeInteger,
			Description: "Total amount on the receipt in JPY",
		},
		"description": {
			Type:        genai.TypeString,
			Description: "Store name or merchant name from the receipt",
		},
		"date": {
			Type:        genai.TypeString,
			Description: "Date from the receipt in ISO format, empty if not found",
		},
		"suggested_category": {
			Type:        genai.TypeString,
			Nullable:    genai.Ptr(true),
			Description: categoryDescription,
		},
		"confidence": {
			Type:        genai.TypeNumber,
			Description: "Confidence score of the extraction (0-1)",
		},
	},
	Required: []string{"amount", "description", "confidence"},
}

// statementSchema constrains the batch statement classification pass.
var statementSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"is_batch": {
			Type:        genai.TypeBoolean,
			Description: "Whether this is a credit card statement with multiple transactions",
		},
		"transactions": {
			Type:        genai.TypeArray,
			Description: "Array of transactions from the credit card statement",
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"amount": {
						Type:        genai.TypeInteger,
						Description: "Transaction amount in JPY",
					},
					"description": {
						Type:        genai.TypeString,
						Description: "Store/merchant name",
					},
					"date": {
						Type:        genai.TypeString,
						Description: "Transaction date in ISO format (YYYY-MM-DD)",
					},
					"suggested_category": {
						Type:        genai.TypeString,
						Nullable:    genai.Ptr(true),
						Description: categoryDescription,
					},
				},
				Required: []string{"amount", "description", "date"},
			},
		},
		"confidence": {
			Type:        genai.TypeNumber,
			Description: "Overall confidence score for all extractions",
		},
	},
	Required: []string{"is_batch", "transactions", "confidence"},
}

// emailSchema constrains email notification extraction. Unlike receipts,
// emails can describe income (salary, refunds), so the schema carries the
// transaction type.
var emailSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"amount": {
			Type:        genai.TypeInteger,
			Description: "Transaction amount in JPY",
		},
		"type": {
			Type:        genai.TypeString,
			Enum:        []string{"income", "expense"},
			Description: "Transaction type",
		},
		"description": {
			Type:        genai.TypeString,
			Description: "Merchant or transaction description",
		},
		"date": {
			Type:        genai.TypeString,
			Description: "Transaction date in ISO format",
		},
		"suggested_category": {
			Type:        genai.TypeString,
			Nullable:    genai.Ptr(true),
			Description: emailCategoryDescription,
		},
		"confidence": {
			Type:        genai.TypeNumber,
			Description: "Confidence score (0-1)",
		},
	},
	Required: []string{"amount", "type", "description", "confidence"},
}
