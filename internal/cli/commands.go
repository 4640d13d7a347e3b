package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/guttosm/basket-service/internal/domain/dto"
	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/guttosm/basket-service/internal/service"
	"github.com/spf13/cobra"
)

func newScoreCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Score the sustainability of one product.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			var req dto.ScoreRequest
			if err := r.decode(&req); err != nil {
				return err
			}

			var opts []service.ScoreOption
			if req.Quantity > 0 {
				opts = append(opts, service.WithPurchasedQuantity(req.Quantity))
			}
			score, err := r.services.Scorer.Score(req.Product, average(req.CategoryAverage), opts...)
			if err != nil {
				return err
			}

			if r.opts.output == OutputTable {
				w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "PRODUCT\tECONOMIC\tENVIRONMENTAL\tSOCIAL\tOVERALL\tCO2 KG\t")
				fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.1f\t%.1f\t%.2f\t\n", req.Product.ID,
					score.Economic, score.Environmental, score.Social, score.Overall, score.CarbonFootprintKg)
				return w.Flush()
			}
			return r.printJSON(score)
		},
	}
}

func newCompareCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Compare the sustainability of two products.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			var req dto.CompareRequest
			if err := r.decode(&req); err != nil {
				return err
			}
			cmp, err := r.services.Scorer.Compare(req.First, average(req.FirstAverage), req.Second, average(req.SecondAverage))
			if err != nil {
				return err
			}
			return r.printJSON(cmp)
		},
	}
}

func newOptimizeCommand(r *runner) *cobra.Command {
	var quick bool

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Pick the best basket within a budget.",
		Long: `Pick the best basket within a budget.

With --quick every item gets the same priority and the quick weights are
used, which mirrors the quick-optimize endpoint.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			var req dto.OptimizeRequest
			if err := r.decode(&req); err != nil {
				return err
			}

			weights := service.WeightsFor(req.PrioritizeSustainability, req.PrioritizeSavings)
			if req.Weights != nil {
				weights = *req.Weights
			}
			priority := 0
			if quick {
				weights = service.QuickWeights
				priority = service.QuickPriority
			}

			items, err := r.basketItems(req.Items, priority)
			if err != nil {
				return err
			}

			var sel model.Selection
			if req.EssentialsMode {
				sel, err = r.services.Optimizer.OptimizeWithEssentials(items, req.Budget, weights)
			} else {
				sel, err = r.services.Optimizer.Optimize(items, req.Budget, weights)
			}
			if err != nil {
				return err
			}

			lines := sel.Lines(items)
			if r.opts.output == OutputTable {
				w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "PRODUCT\tQUANTITY\tSUBTOTAL\t")
				for _, l := range lines {
					fmt.Fprintf(w, "%s\t%d\t%s\t\n", l.Item.Product.ID, l.Quantity, money(l.Subtotal))
				}
				fmt.Fprintln(w, " \t \t \t")
				fmt.Fprintf(w, "TOTAL\t%d\t%s\t\n", sel.Stats.TotalItems, money(sel.Stats.TotalCost))
				fmt.Fprintf(w, "REMAINING\t\t%s\t\n", money(sel.Stats.BudgetRemaining))
				return w.Flush()
			}
			return r.printJSON(dto.OptimizeResponse{Selection: sel, Lines: lines, Weights: weights})
		},
	}
	cmd.Flags().BoolVar(&quick, "quick", false, "use the quick weights and one priority for every item")
	return cmd
}

// basketItems scores items that do not carry a precomputed score.
func (r *runner) basketItems(in []dto.OptimizeItem, priority int) ([]model.BasketItem, error) {
	items := make([]model.BasketItem, len(in))
	for i, it := range in {
		item := model.BasketItem{
			Product:         it.Product,
			DesiredQuantity: it.Quantity,
			Priority:        it.Priority,
			Essential:       it.Essential,
			CategoryAverage: average(it.CategoryAverage),
		}
		if priority > 0 {
			item.Priority = priority
		}
		if it.SustainabilityScore != nil {
			item.SustainabilityScore = *it.SustainabilityScore
		} else {
			score, err := r.services.Scorer.Score(it.Product, item.CategoryAverage)
			if err != nil {
				return nil, err
			}
			item.SustainabilityScore = score.Overall
		}
		items[i] = item
	}
	return items, nil
}

func newSubstitutesCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "substitutes",
		Short: "Rank alternatives to a product from a candidate pool.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			var req dto.SubstitutesRequest
			if err := r.decode(&req); err != nil {
				return err
			}
			if len(req.Pool) == 0 {
				return errors.New("pool is required without a catalog")
			}

			results, err := r.services.Substitutes.FindSubstitutes(req.Product, req.Pool, req.Criteria(r.locale()))
			if err != nil {
				return err
			}
			if req.Limit > 0 && len(results) > req.Limit {
				results = results[:req.Limit]
			}

			if r.opts.output == OutputTable {
				w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "CANDIDATE\tSCORE\tIMPROVEMENT\tSAVINGS\tCO2 SAVED KG\t")
				for _, s := range results {
					fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%s\t%.2f\t\n", s.Candidate.ID,
						s.Score, s.SustainabilityImprovement, money(s.Savings), s.CarbonReductionKg)
				}
				return w.Flush()
			}
			return r.printJSON(results)
		},
	}
}

func newRouteCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "route",
		Short: "Plan the shortest round trip over a set of stores.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			var req dto.RouteRequest
			if err := r.decode(&req); err != nil {
				return err
			}
			if len(req.StoreIDs) > 0 {
				return errors.New("store_ids need a catalog; pass stores instead")
			}

			route, err := r.services.Routes.Optimize(req.Stores, req.Start)
			if err != nil {
				return err
			}

			if r.opts.output == OutputTable {
				w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "STOP\tSTORE\tNAME\t")
				for i, s := range route.Stores {
					fmt.Fprintf(w, "%d\t%s\t%s\t\n", i+1, s.ID, s.Name)
				}
				fmt.Fprintln(w, " \t \t \t")
				fmt.Fprintf(w, "DISTANCE\t%.2f km\t\t\n", route.TotalDistanceKm)
				fmt.Fprintf(w, "TIME\t%.0f min\t\t\n", route.EstimatedTimeMinutes)
				return w.Flush()
			}
			return r.printJSON(route)
		},
	}
}

func newImpactCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "impact",
		Short: "Summarize the cost and carbon impact of a basket.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			var req dto.ImpactRequest
			if err := r.decode(&req); err != nil {
				return err
			}
			analysis, err := r.services.Analyzer.AnalyzeBasket(req.Lines, req.CategoryAverages, r.locale())
			if err != nil {
				return err
			}
			return r.printJSON(analysis)
		},
	}
}

func average(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
