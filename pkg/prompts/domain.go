package prompts

import (
	"sort"
	"strings"
)

// Domain-specific vocabulary sections. These encode the column-naming
// conventions and exact categorical values of each data domain so the
// generation service filters on real strings instead of guessing.

const businessVocabulary = `## BUSINESS DATA RULES (Sales ecosystem):

### Customer segmentation:
Column 'Customer is business customer (IN/TIN)' distinguishes segments.
EXACT string matches are required:
- B2B rows:  value == 'Customer is business customer (IN/TIN)'
- B2C rows:  value == 'Customer is not business customer (IN/TIN)'

    b2b := sales.FilterEq("Customer is business customer (IN/TIN)", "Customer is business customer (IN/TIN)")

### Membership:
Column 'AlzaPlus+', exact values:
- members:     'AlzaPlus+'
- non-members: 'Customer is not member of AlzaPlus+ program'

### Geography:
Column 'Eshop site country' with values 'Česká republika', 'Slovensko',
'Maďarsko', 'Rakousko', 'Německo'. Questions about "země", "country",
"trh" or "market" use this column, never 'Country' or 'Země'.

### Shipping:
Sales carries 'Shipping group', 'Shipping name' and 'Shipping detail name'.
Strategic shipping analysis needs the Bridge dataset: match rows on
'Shipping name', then group by 'ShippingType'.

### Payments:
Column 'Payment detail name' ('Karta', 'Alza Kredit', 'Apple Pay',
'Hotově', 'Dobírka').

### Product categories:
Column 'Catalogue segment 1' (Telefony, TV, Počítače, Komponenty, ...).

### Dataset choice:
- Revenue questions → Sales.
- Order/document counts → Documents.
- Margin questions → M3 together with Sales.
- Basket/AOV needs BOTH Sales AND Documents; if one is missing, report the
  missing dataset instead of approximating.
- The word "dokument"/"invoice" in a revenue context means the Documents
  dataset, not the expense-invoice (OVH) dataset.

### Output conventions:
Czech column names in results ("Tržby (Kč)", "Podíl (%)", "Měsíc").
Include MoM % and YoY % for monthly series when the data allows it.`

const accountingVocabulary = `## ACCOUNTING DATA RULES (P&L ecosystem):

### PL (Profit & Loss statement):
- Wide format, one column per month.
- Column 'Account class': class 5 = costs, class 6 = revenue.
- Czech accounting sign convention: expenses negative, revenue positive.

    costs := pl.FilterEq("Account class", "5")

### OVH (expense invoices):
- Wide format, one column per month.
- Operating expenses, supplier invoices, overhead detail.
- Vendor and department breakdowns come from here, not from PL.

### Dataset choice:
- Aggregate P&L questions → PL.
- "kolik jsme zaplatili", vendor or invoice detail → OVH.
- The word "faktura"/"invoice" in a cost context means OVH, not the
  revenue Documents dataset; if intent is ambiguous, say which dataset you
  chose in the title.

### Output conventions:
Czech number formatting: space as thousands separator, "Kč" suffix for
currency amounts.`

// vocabularyFor returns the instruction block for a domain. Unknown
// domains get the business vocabulary, matching the router's default.
func vocabularyFor(domain string) string {
	if domain == "accounting" {
		return accountingVocabulary
	}
	return businessVocabulary
}

// topicContextsFor selects tenant topic overrides whose keyword appears
// in the question, in deterministic order.
func topicContextsFor(question string, topics map[string]string) []string {
	if len(topics) == 0 {
		return nil
	}
	q := strings.ToLower(question)
	var keys []string
	for k := range topics {
		if strings.Contains(q, strings.ToLower(k)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, topics[k])
	}
	return out
}
