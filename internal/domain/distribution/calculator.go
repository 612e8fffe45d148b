// Package distribution turns brand budget requests into client/article
// breakdowns scaled from historical sales.
package distribution

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
	"github.com/sorenh/brandbudget-backend/internal/domain/sales"
)

var oneHundred = decimal.NewFromInt(100)

// Masters holds the brand and company master lists used to validate
// requests. Matching is case-insensitive and whitespace-trimmed.
type Masters struct {
	Brands    []string
	Companies []string
}

// Calculator runs budget distribution batches. It is stateless across runs;
// a batch only reads the masters and the sales history it is handed.
type Calculator struct {
	brands    map[string]bool
	companies map[string]bool
	logger    *slog.Logger
}

// NewCalculator creates a calculator over the given master lists.
func NewCalculator(masters Masters, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Calculator{
		brands:    make(map[string]bool, len(masters.Brands)),
		companies: make(map[string]bool, len(masters.Companies)),
		logger:    logger,
	}
	for _, b := range masters.Brands {
		c.brands[normalize(b)] = true
	}
	for _, co := range masters.Companies {
		c.companies[normalize(co)] = true
	}
	return c
}

// Run processes every request against the reference periods and sales
// history. Failing requests are reported and skipped; the batch never
// aborts. Results and errors together account for every request.
func (c *Calculator) Run(
	requests []budget.BrandBudgetRequest,
	periods []string,
	records []budget.SalesRecord,
) ([]budget.BrandDistributionResult, []*budget.AllocationError) {
	results := make([]budget.BrandDistributionResult, 0, len(requests))
	errs := make([]*budget.AllocationError, 0)

	for _, req := range requests {
		result, err := c.runOne(req, periods, records)
		if err != nil {
			c.logger.Warn("budget request skipped",
				"brand", req.Brand,
				"company", req.Company,
				"kind", string(err.Kind),
			)
			errs = append(errs, err)
			continue
		}
		results = append(results, *result)
	}

	return results, errs
}

func (c *Calculator) runOne(
	req budget.BrandBudgetRequest,
	periods []string,
	records []budget.SalesRecord,
) (*budget.BrandDistributionResult, *budget.AllocationError) {
	if !c.brands[normalize(req.Brand)] {
		return nil, budget.NewAllocationError(budget.ErrUnknownBrand, req,
			fmt.Sprintf("brand %q is not in the master list", req.Brand))
	}
	if !c.companies[normalize(req.Company)] {
		return nil, budget.NewAllocationError(budget.ErrUnknownCompany, req,
			fmt.Sprintf("company %q is not in the master list", req.Company))
	}

	matched := filterRecords(req, periods, records)
	if len(matched) == 0 {
		return nil, budget.NewAllocationError(budget.ErrNoHistoricalSales, req,
			"no sales in the reference window")
	}

	total := decimal.Zero
	for _, rec := range matched {
		total = total.Add(rec.Amount)
	}

	// Divide by the requested window size, so idle months dilute the average.
	average := sales.PeriodAverage(total, len(periods))
	if average.IsZero() {
		return nil, budget.NewAllocationError(budget.ErrZeroAverage, req,
			"historical sales net to zero, nothing to scale")
	}

	factor := req.TargetAmount.Div(average)
	percentChange := factor.Sub(decimal.NewFromInt(1)).Mul(oneHundred)

	return &budget.BrandDistributionResult{
		Brand:             req.Brand,
		Company:           req.Company,
		TargetDate:        req.TargetDate,
		TargetAmount:      req.TargetAmount,
		HistoricalAverage: average,
		AdjustmentFactor:  factor,
		PercentChange:     percentChange,
		Clients:           c.breakDownClients(matched, len(periods), factor),
	}, nil
}

// breakDownClients groups matched records by client, then by article within
// each client, scaling every article average by the adjustment factor.
// Group order follows first encounter in the sales history.
func (c *Calculator) breakDownClients(
	matched []budget.SalesRecord,
	periodCount int,
	factor decimal.Decimal,
) []budget.ClientDistribution {
	clients := make([]budget.ClientDistribution, 0)
	clientIdx := make(map[string]int)
	articleIdx := make(map[string]map[string]int)
	articleSums := make(map[string][]decimal.Decimal)

	for _, rec := range matched {
		i, ok := clientIdx[rec.Client]
		if !ok {
			i = len(clients)
			clientIdx[rec.Client] = i
			clients = append(clients, budget.ClientDistribution{
				Client:  rec.Client,
				Vendor:  rec.Vendor,
				Company: rec.Company,
			})
			articleIdx[rec.Client] = make(map[string]int)
		}

		j, ok := articleIdx[rec.Client][rec.Article]
		if !ok {
			j = len(articleSums[rec.Client])
			articleIdx[rec.Client][rec.Article] = j
			clients[i].Articles = append(clients[i].Articles, budget.ArticleDistribution{
				Article: rec.Article,
			})
			articleSums[rec.Client] = append(articleSums[rec.Client], decimal.Zero)
		}
		articleSums[rec.Client][j] = articleSums[rec.Client][j].Add(rec.Amount)
	}

	for i := range clients {
		subtotal := decimal.Zero
		for j := range clients[i].Articles {
			average := sales.PeriodAverage(articleSums[clients[i].Client][j], periodCount)
			adjusted := average.Mul(factor)
			clients[i].Articles[j].HistoricalAverage = average
			clients[i].Articles[j].AdjustedAmount = adjusted
			clients[i].Articles[j].Variance = adjusted.Sub(average)
			subtotal = subtotal.Add(adjusted)
		}
		clients[i].Subtotal = subtotal
	}

	return clients
}

func filterRecords(req budget.BrandBudgetRequest, periods []string, records []budget.SalesRecord) []budget.SalesRecord {
	inWindow := make(map[string]bool, len(periods))
	for _, p := range periods {
		inWindow[p] = true
	}

	brand := normalize(req.Brand)
	company := normalize(req.Company)

	matched := make([]budget.SalesRecord, 0)
	for _, rec := range records {
		if normalize(rec.Brand) != brand || normalize(rec.Company) != company {
			continue
		}
		if !inWindow[rec.Period] {
			continue
		}
		matched = append(matched, rec)
	}
	return matched
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
