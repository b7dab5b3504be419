package prompts

// Static prompt sections shared by every compiled prompt. The generation
// service produces a Go snippet evaluated against pre-bound frames; these
// sections define the execution contract the snippet must follow.

const coreRules = `## CORE RULES - ALL DATASETS

### 1. WIDE FORMAT:
Monthly datasets use one column per month, named '01.01.2024', '01.02.2024', etc.
Each column holds the full value for that month.

Simple aggregations stay wide:

    sales := Sales
    total := sales.Sum("01.01.2024")

Trends over time iterate the month columns:

    months := MonthColumns(sales)
    trend := NewFrame("trend", []string{"Měsíc", "Tržby"})
    for _, m := range months {
        trend.AppendRow([]any{m, sales.Sum(m)})
    }

### 2. NUMERIC VALUES:
Numeric columns are already coerced to numbers when frames are loaded.
When reading a single cell of unknown type, coerce it explicitly with
ToNumber(v) before arithmetic.

### 3. NO FABRICATED DATA (ABSOLUTE):
- NEVER invent rows or hardcode result values.
- ALWAYS derive the result from the frames that are in memory.

### 4. MISSING DATASET - STOP AND REPORT:
If the question needs a dataset that is NOT in the available list:
- DO NOT substitute another dataset.
- DO NOT pretend the data exists.
- Instead produce this error result:

    title := "Chybějící dataset"
    missing := NewFrame("error", []string{"Chyba"})
    missing.AppendRow([]any{"Pro tento dotaz potřebuji dataset [NAME], který není nahraný. Prosím nahrajte ho v sekci Datasety."})
    result := missing

### 5. NO TOTAL ROWS:
The caller adds grand totals itself. Never append "CELKEM"/"Total" rows.

### 6. FRAMES ARE IN MEMORY:
Every dataset is already loaded and bound to its identifier (Sales, PL,
OVH, ...). There is no file access; do not attempt to read files.

### 7. OUTPUT FORMAT:
    title := "Krátký popisný název"   // MUST be the first line
    // ... transformation ...
    result := finalFrame              // MUST be the last line

- Title: max 60 characters, no question phrasing.
- Sort descending (highest first) unless asked otherwise.
- result may be a frame, a map, a slice or a single value.

### 8. AVAILABLE FUNCTIONS:
Frames expose: Filter, FilterEq, Select, GroupBySum, Sum, SortBy, Head,
WithColumn, Records, Columns, RowCount, MonthColumns.
Helpers: NewFrame, ParseDay, MonthColumns, ToNumber, Abs, Round.
No imports are needed and none beyond the approved set are allowed.`

const outputInstructions = `## RESPONSE INSTRUCTIONS:

Produce ONLY Go code, runnable as-is, without surrounding prose.
First line binds title, last line binds result:

    title := "Tržby leden 2025"
    // ...
    result := frame

Title rules: short (max 60 chars), declarative, derived from the question
("Jaké byly tržby v lednu 2025?" → "Tržby leden 2025").

Generate the code NOW (title on the first line!):`

// defaultAnalystRole is used when the tenant supplies no override.
var defaultAnalystRole = map[string]string{
	"business":   "You are a business analyst for an e-commerce retailer, turning revenue questions into data transformations.",
	"accounting": "You are a financial analyst working with accounting data (P&L statements and expense invoices).",
}
