package main

import (
	"fmt"
	"math"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jihwankim/seismic-hazard/pkg/consolidate"
	"github.com/jihwankim/seismic-hazard/pkg/control"
	"github.com/jihwankim/seismic-hazard/pkg/deagg"
	"github.com/jihwankim/seismic-hazard/pkg/deaggsummary"
	"github.com/jihwankim/seismic-hazard/pkg/exceedance"
	"github.com/jihwankim/seismic-hazard/pkg/hazard"
	"github.com/jihwankim/seismic-hazard/pkg/hazconfig"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
	"github.com/jihwankim/seismic-hazard/pkg/metrics"
	"github.com/jihwankim/seismic-hazard/pkg/obslog"
	"github.com/jihwankim/seismic-hazard/pkg/pipeline"
	"github.com/jihwankim/seismic-hazard/pkg/rupture"
	"github.com/jihwankim/seismic-hazard/pkg/xysequence"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Args:  cobra.NoArgs,
	Short: "Compute hazard (and, optionally, deaggregation) for one site",
	RunE:  runHazard,
}

func init() {
	runCmd.Flags().String("model", "", "path to a hazard model YAML file (default: built-in demo model)")
	runCmd.Flags().Float64("lat", 34.05, "site latitude")
	runCmd.Flags().Float64("lon", -118.25, "site longitude")
	runCmd.Flags().Float64("vs30", 760, "site Vs30 (m/s)")
	runCmd.Flags().Bool("deagg", false, "also run deaggregation at the configured return period or IML")
}

func runHazard(cmd *cobra.Command, args []string) error {
	modelPath, _ := cmd.Flags().GetString("model")
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")
	vs30, _ := cmd.Flags().GetFloat64("vs30")
	runDeagg, _ := cmd.Flags().GetBool("deagg")

	cfg, err := hazconfig.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load calc config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid calc config: %w", err)
	}

	level := obslog.LevelInfo
	if verbose {
		level = obslog.LevelDebug
	}
	logger := obslog.New(obslog.Config{Level: level, Format: obslog.FormatText, Output: os.Stdout})
	logger.Info("hazard-calc starting", "version", version)

	reg := metrics.NewRegistry(prometheus.NewRegistry())

	model, err := loadModel(modelPath)
	if err != nil {
		return fmt.Errorf("failed to load hazard model: %w", err)
	}

	imts := make([]imt.IMT, 0, len(cfg.Hazard.IMTs))
	for _, name := range cfg.Hazard.IMTs {
		i, err := imt.ParseIMT(name)
		if err != nil {
			return fmt.Errorf("hazard.imts: %w", err)
		}
		imts = append(imts, i)
	}
	excModel, err := exceedance.ParseModel(cfg.Hazard.ExceedanceModel)
	if err != nil {
		return fmt.Errorf("hazard.exceedance_model: %w", err)
	}

	templates := make(map[imt.IMT]*xysequence.XYSequence, len(imts))
	for _, i := range imts {
		templates[i] = defaultModelCurve()
	}

	site := rupture.Site{Lat: lat, Lon: lon, VS30: vs30, VsInf: true}

	controller, _ := control.New(cmd.Context())

	exec := pipeline.New(cfg.Performance.ThreadCount)
	settings := hazard.Settings{
		IMTs:            imts,
		ExceedanceModel: excModel,
		TruncationLevel: cfg.Hazard.TruncationLevel,
		SystemPartition: cfg.Performance.SystemPartition,
		GmmUncertainty:  cfg.Hazard.GmmUncertainty,
		Templates:       templates,
	}

	logger.Info("computing hazard", "site_lat", lat, "site_lon", lon, "imts", cfg.Hazard.IMTs)
	hz, retained, err := hazard.Compute(exec, reg, site, model, settings)
	if err != nil {
		controller.ReportError("hazard.Compute", err)
		return controller.Err()
	}

	for _, i := range imts {
		printCurve(i, hz)
	}

	if !runDeagg {
		return nil
	}

	grid := deagg.Grid{
		RMin: cfg.Deagg.Bins.RMin, RMax: cfg.Deagg.Bins.RMax, RDelta: cfg.Deagg.Bins.RDelta,
		MMin: cfg.Deagg.Bins.MMin, MMax: cfg.Deagg.Bins.MMax, MDelta: cfg.Deagg.Bins.MDelta,
		EpsMin: cfg.Deagg.Bins.EpsMin, EpsMax: cfg.Deagg.Bins.EpsMax, EpsDelta: cfg.Deagg.Bins.EpsDelta,
	}

	target := imts[0]
	var result *deagg.Result
	if cfg.Deagg.IML > 0 {
		result, err = hazard.DeaggregateAtIml(hz, retained, target, grid, excModel, cfg.Hazard.TruncationLevel, math.Log(cfg.Deagg.IML))
	} else {
		result, err = hazard.DeaggregateAtReturnPeriod(hz, retained, target, grid, excModel, cfg.Hazard.TruncationLevel, cfg.Deagg.ReturnPeriod)
	}
	if err != nil {
		controller.ReportError("hazard.Deaggregate", err)
		return controller.Err()
	}

	printDeagg(result, cfg.Deagg.ContributorLimit)
	return nil
}

func printCurve(i imt.IMT, hz *consolidate.Hazard) {
	curve := hz.ByIMT[i]
	fmt.Printf("\n%s total hazard curve (x = g, y = annual rate of exceedance)\n", i)
	for j := 0; j < curve.Len(); j++ {
		fmt.Printf("  %10.5g  %12.6g\n", math.Exp(curve.X(j)), curve.Y(j))
	}
}

func printDeagg(result *deagg.Result, contributorLimit float64) {
	summary, err := deaggsummary.Build(result.Total, result.Total)
	if err != nil {
		fmt.Fprintf(os.Stderr, "deagg summary: %v\n", err)
		return
	}
	fmt.Printf("\nDeaggregation at IML=%.5g g (return period %.1f yr)\n", math.Exp(result.Config.IML), result.Config.ReturnPeriod)
	fmt.Printf("  recovered rate   %.6g (binned %.1f%%, residual %.1f%%, trace %.1f%%)\n",
		summary.RecoveredRate, summary.BinnedPercent, summary.ResidualPercent, summary.TracePercent)
	fmt.Printf("  mean r=%.2f km  m=%.2f  eps=%.2f\n", summary.RBar, summary.MBar, summary.EpsBar)
	fmt.Printf("  mode (r,m)       r=%.1f km m=%.2f  (%.1f%% of total)\n",
		summary.ModeRM.R, summary.ModeRM.M, summary.ModeRM.ContributionPercent)
	fmt.Printf("  mode (r,m,eps)   r=%.1f km m=%.2f eps=%.2f  (%.1f%% of total)\n",
		summary.ModeEps.R, summary.ModeEps.M, summary.ModeEps.Eps, summary.ModeEps.ContributionPercent)

	ranked := deaggsummary.RankContributors(result.Total.Root.Children, summary.RecoveredRate, contributorLimit)
	fmt.Println("  top contributors:")
	for _, r := range ranked {
		fmt.Printf("    %-8s %-20s %6.2f%%\n", r.Contributor.Kind, r.Contributor.Name, r.Percent)
	}
}

// defaultModelCurve returns the natural-log g-value grid the demo CLI uses
// for every IMT absent a per-IMT model curve file (hazard model curve
// construction is an external collaborator's concern per spec §1).
func defaultModelCurve() *xysequence.XYSequence {
	const n = 40
	xs := make([]float64, n)
	lo, hi := math.Log(1e-4), math.Log(4.0)
	for i := range xs {
		xs[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return xysequence.New(xs)
}

