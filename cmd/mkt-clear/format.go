package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/someonegg/mktmatch"
	"github.com/someonegg/mktmatch/period"
)

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "   ")
	return encoder.Encode(v)
}

func printTrace(w io.Writer, trace []mktmatch.TraceEntry) {
	for _, e := range trace {
		fmt.Fprintf(w, "  [%s] %s\n", e.Step, e.Message)
	}
	if len(trace) > 0 {
		fmt.Fprintln(w)
	}
}

func printMarket(w io.Writer, r *mktmatch.Result) {
	printTrace(w, r.Trace)

	fmt.Fprintf(w, "supply: %d, avg price: %.2f, multiplier: %.4f, demand: %d\n",
		r.TotalSupply, r.AvgPrice, r.Multiplier, r.TotalDemand)
	fmt.Fprintf(w, "  %-4s %-24s %10s %8s %8s %8s %12s\n",
		"rank", "group", "price", "offered", "target", "sold", "revenue")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("-", 80))
	for _, s := range r.Sales {
		fmt.Fprintf(w, "  %-4d %-24s %10.2f %8d %8d %8d %12.2f\n",
			s.Rank+1, s.Name, s.Price, s.Offered, s.Target, s.Sold, s.Revenue)
	}
	fmt.Fprintf(w, "sold: %d, unmet: %d, revenue: %.2f\n", r.TotalSold, r.Unmet, r.TotalRevenue)
}

func printOutcome(w io.Writer, out *period.Outcome, trace bool) {
	fmt.Fprintf(w, "PERIOD %d\n", out.Period)
	if trace {
		printTrace(w, out.Market.Trace)
	}
	fmt.Fprintf(w, "supply: %d, avg price: %.2f, multiplier: %.4f, demand: %d, unmet: %d\n",
		out.Market.TotalSupply, out.Market.AvgPrice, out.Market.Multiplier, out.Market.TotalDemand, out.Market.Unmet)
	fmt.Fprintf(w, "  %-12s %10s %8s %8s %12s %12s %12s %8s\n",
		"group", "price", "offered", "sold", "revenue", "costs", "profit", "share%")
	for _, r := range out.Results {
		fmt.Fprintf(w, "  %-12s %10.2f %8d %8d %12s %12s %12s %8s\n",
			r.GroupID, r.Price, r.Offered, r.SoldUnits,
			r.Revenue.StringFixed(2), r.TotalCosts.StringFixed(2), r.Profit.StringFixed(2),
			r.MarketShare.StringFixed(2))
	}
	fmt.Fprintln(w)
}

func printStandings(w io.Writer, states []period.GroupState) {
	ranked := append([]period.GroupState(nil), states...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Capital.GreaterThan(ranked[j].Capital)
	})

	fmt.Fprintln(w, "STANDINGS")
	for i, g := range ranked {
		fmt.Fprintf(w, "  %d. %-24s capital %12s  inventory %6d  profit %12s\n",
			i+1, g.Name, g.Capital.StringFixed(2), g.Inventory, g.CumulativeProfit.StringFixed(2))
	}
}
