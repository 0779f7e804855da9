package cmd

import "io"

type Context struct {
	Debug      bool
	ConfigFile string
	Stdout     io.Writer
}

var CLI struct {
	Debug      bool   `help:"Enable debug mode"`
	ConfigFile string `default:".WineCellar.toml" help:"Path to config file" short:"c"`

	Register RegisterCmd `cmd:"" help:"Create an account"`
	Login    LoginCmd    `cmd:"" help:"Log in and save a session token"`

	CreateCellar   CreateCellarCmd   `cmd:"" help:"Create a cellar"`
	ListCellars    ListCellarsCmd    `cmd:"" help:"List your cellars"`
	ExploreCellars ExploreCellarsCmd `cmd:"" help:"List the cellars of every account"`
	ShowCellar     ShowCellarCmd     `cmd:"" help:"Show a cellar with shelf occupancy"`
	AddShelf       AddShelfCmd       `cmd:"" help:"Add a shelf to a cellar"`
	RemoveShelf    RemoveShelfCmd    `cmd:"" help:"Remove an empty shelf"`

	AddBottles     AddBottlesCmd     `cmd:"" help:"Add bottles to a shelf"`
	RemoveBottles  RemoveBottlesCmd  `cmd:"" help:"Remove bottles without archiving them"`
	ArchiveBottles ArchiveBottlesCmd `cmd:"" help:"Archive bottles with a review"`
	ListInventory  ListInventoryCmd  `cmd:"" help:"List the grouped inventory of a cellar"`
	ShowLabel      ShowLabelCmd      `cmd:"" help:"Fetch a stored label image"`

	ReviewSummary     ReviewSummaryCmd     `cmd:"" help:"Average rating and review count of a wine"`
	ReviewDetail      ReviewDetailCmd      `cmd:"" help:"Every review of a wine"`
	CommunityOverview CommunityOverviewCmd `cmd:"" help:"Reviews of every account grouped per wine"`
	LookupWine        LookupWineCmd        `cmd:"" help:"Look up wine details on a product page"`

	Serve   ServeCmd   `cmd:"" help:"Run the server"`
	Migrate MigrateCmd `cmd:"" help:"Run database migrations"`
}
