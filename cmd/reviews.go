package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"droscher.com/WineCellar/configs"
	"droscher.com/WineCellar/pkg/integrations"
)

type ReviewSummaryCmd struct {
	WineFlags `embed:""`
}

func (r *ReviewSummaryCmd) Run(ctx *Context) error {
	wine, err := r.characteristics()
	if err != nil {
		return err
	}

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.service.ReviewSummary(context.Background(), wine)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout, "Average rating: %s\nReviews: %d\n", optionalFloat(summary.AverageRating), summary.ReviewCount)

	return nil
}

type ReviewDetailCmd struct {
	WineFlags `embed:""`
}

func (r *ReviewDetailCmd) Run(ctx *Context) error {
	wine, err := r.characteristics()
	if err != nil {
		return err
	}

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	reviews, err := a.service.ReviewDetail(context.Background(), wine)
	if err != nil {
		return err
	}

	return printReviews(ctx.Stdout, reviews)
}

type CommunityOverviewCmd struct{}

func (c *CommunityOverviewCmd) Run(ctx *Context) error {
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	wines, err := a.service.CommunityOverview(context.Background())
	if err != nil {
		return err
	}

	return printCommunity(ctx.Stdout, wines)
}

type LookupWineCmd struct {
	URL string `arg:"" help:"Product page of the wine"`
}

func (l *LookupWineCmd) Run(ctx *Context) error {
	logger := newCLILogger(ctx.Debug)
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(ctx.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	wine, err := integrations.LookupWine(conf.Integrations.Wine, l.URL, logger)
	if err != nil {
		logger.Error("failed wine lookup", zap.String("url", l.URL), zap.Error(err))

		return err
	}

	table := newTable(ctx.Stdout, "PRODUCER", "NAME", "TYPE", "YEAR", "REGION", "PRICE")
	fmt.Fprintf(table, "%s\t%s\t%s\t%d\t%s\t%s\n",
		wine.Producer, wine.Name, wine.Type, wine.Year, optional(wine.Region), optionalFloat(wine.Price))

	return table.Flush()
}
