package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli"

	appcli "nota/internal/cli"
	"nota/internal/core"
	"nota/internal/log"
	"nota/internal/seed"
)

// opener builds the services on first use so --help never touches storage.
type opener func(ctx context.Context) (*appcli.Services, func() error, error)

type commandEnv struct {
	open    opener
	out     io.Writer
	svc     *appcli.Services
	closeFn func() error
}

func (e *commandEnv) services(ctx context.Context) (*appcli.Services, error) {
	if e.svc != nil {
		return e.svc, nil
	}
	svc, closeFn, err := e.open(ctx)
	if err != nil {
		return nil, err
	}
	e.svc, e.closeFn = svc, closeFn
	return svc, nil
}

func (e *commandEnv) close() error {
	if e.closeFn == nil {
		return nil
	}
	return e.closeFn()
}

func newApp(ctx context.Context, open opener, out io.Writer, logger *log.Logger) *cli.App {
	env := &commandEnv{open: open, out: out}

	app := cli.NewApp()
	app.Name = "notactl"
	app.Usage = "manage payment requests and receipts"
	app.Writer = out
	app.After = func(c *cli.Context) error { return env.close() }

	recordFlags := []cli.Flag{
		cli.StringFlag{Name: "client", Usage: "client name"},
		cli.StringFlag{Name: "description", Usage: "what the payment is for"},
		cli.StringFlag{Name: "amount", Usage: "amount in rupiah, e.g. 1500000 or \"Rp 1.500.000\""},
		cli.StringFlag{Name: "method", Value: string(core.MethodTransfer), Usage: "transfer, cash, ewallet or other"},
		cli.StringFlag{Name: "bank-name"},
		cli.StringFlag{Name: "account-number"},
		cli.StringFlag{Name: "account-holder"},
		cli.StringFlag{Name: "provider", Usage: "e-wallet provider"},
		cli.StringFlag{Name: "phone", Usage: "e-wallet phone number"},
		cli.StringFlag{Name: "account-name", Usage: "e-wallet account name"},
	}

	app.Commands = []cli.Command{
		{
			Name:  "invoice",
			Usage: "payment requests",
			Subcommands: []cli.Command{
				{
					Name:  "create",
					Usage: "create a payment request",
					Flags: append([]cli.Flag{cli.StringFlag{Name: "due", Usage: "due date, YYYY-MM-DD or DD/MM/YYYY"}}, recordFlags...),
					Action: func(c *cli.Context) error {
						svc, err := env.services(ctx)
						if err != nil {
							return err
						}
						req, err := svc.Records.CreateInvoice(ctx, formInput(c, c.String("due")))
						if err != nil {
							return cli.NewExitError(err.Error(), 1)
						}
						return env.printJSON(req)
					},
				},
				{
					Name:  "list",
					Usage: "list payment requests, newest first",
					Flags: []cli.Flag{
						cli.StringFlag{Name: "q", Usage: "search client or description"},
						cli.StringFlag{Name: "status", Value: core.StatusFilterAll, Usage: "all, waiting, overdue or paid"},
					},
					Action: func(c *cli.Context) error {
						svc, err := env.services(ctx)
						if err != nil {
							return err
						}
						reqs, err := svc.Records.ListInvoices(ctx, core.InvoiceFilter{Query: c.String("q"), Status: c.String("status")})
						if err != nil {
							return cli.NewExitError(err.Error(), 1)
						}
						tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
						fmt.Fprintln(tw, "ID\tCLIENT\tAMOUNT\tDUE\tSTATUS")
						for _, r := range reqs {
							fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Client, r.Amount, r.DueDate, r.Status.Label())
						}
						return tw.Flush()
					},
				},
				{
					Name:      "show",
					Usage:     "show one payment request",
					ArgsUsage: "ID",
					Action: func(c *cli.Context) error {
						id, err := idArg(c)
						if err != nil {
							return err
						}
						svc, err := env.services(ctx)
						if err != nil {
							return err
						}
						req, err := svc.Records.GetInvoice(ctx, id)
						if err != nil {
							return cli.NewExitError(err.Error(), 1)
						}
						return env.printJSON(req)
					},
				},
				{
					Name:      "pay",
					Usage:     "mark a payment request as paid",
					ArgsUsage: "ID",
					Action: func(c *cli.Context) error {
						id, err := idArg(c)
						if err != nil {
							return err
						}
						svc, err := env.services(ctx)
						if err != nil {
							return err
						}
						req, err := svc.Records.MarkInvoicePaid(ctx, id)
						if err != nil {
							return cli.NewExitError(err.Error(), 1)
						}
						return env.printJSON(req)
					},
				},
			},
		},
		{
			Name:  "receipt",
			Usage: "payment receipts",
			Subcommands: []cli.Command{
				{
					Name:  "create",
					Usage: "record a received payment",
					Flags: append([]cli.Flag{cli.StringFlag{Name: "date", Usage: "receipt date, YYYY-MM-DD or DD/MM/YYYY"}}, recordFlags...),
					Action: func(c *cli.Context) error {
						svc, err := env.services(ctx)
						if err != nil {
							return err
						}
						rc, err := svc.Records.CreateReceipt(ctx, formInput(c, c.String("date")))
						if err != nil {
							return cli.NewExitError(err.Error(), 1)
						}
						return env.printJSON(rc)
					},
				},
				{
					Name:  "list",
					Usage: "list receipts, newest first",
					Flags: []cli.Flag{cli.StringFlag{Name: "q", Usage: "search client or description"}},
					Action: func(c *cli.Context) error {
						svc, err := env.services(ctx)
						if err != nil {
							return err
						}
						rcs, err := svc.Records.ListReceipts(ctx, core.ReceiptFilter{Query: c.String("q")})
						if err != nil {
							return cli.NewExitError(err.Error(), 1)
						}
						tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
						fmt.Fprintln(tw, "ID\tCLIENT\tAMOUNT\tDATE\tMETHOD")
						for _, r := range rcs {
							fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Client, r.Amount, r.ReceiptDate, r.PaymentMethod.Label())
						}
						return tw.Flush()
					},
				},
				{
					Name:      "show",
					Usage:     "show one receipt",
					ArgsUsage: "ID",
					Action: func(c *cli.Context) error {
						id, err := idArg(c)
						if err != nil {
							return err
						}
						svc, err := env.services(ctx)
						if err != nil {
							return err
						}
						rc, err := svc.Records.GetReceipt(ctx, id)
						if err != nil {
							return cli.NewExitError(err.Error(), 1)
						}
						return env.printJSON(rc)
					},
				},
			},
		},
		{
			Name:  "dashboard",
			Usage: "print totals and recent activity",
			Action: func(c *cli.Context) error {
				svc, err := env.services(ctx)
				if err != nil {
					return err
				}
				sum, err := svc.Records.Dashboard(ctx)
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				fmt.Fprintf(env.out, "Belum dibayar:  %d (%s)\n", sum.UnpaidCount, sum.TotalPending)
				fmt.Fprintf(env.out, "Sudah dibayar:  %d (%s)\n", sum.PaidCount, sum.TotalReceived)
				fmt.Fprintln(env.out)
				tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "KIND\tCLIENT\tAMOUNT\tSTATUS\tDATE")
				for _, a := range sum.RecentActivity {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.Kind, a.Client, a.Amount, a.Status, a.Date)
				}
				return tw.Flush()
			},
		},
		{
			Name:  "amount",
			Usage: "amount helpers",
			Subcommands: []cli.Command{
				{
					Name:      "normalize",
					Usage:     "format raw input as a rupiah amount",
					ArgsUsage: "INPUT",
					Action: func(c *cli.Context) error {
						fmt.Fprintln(env.out, core.NormalizeAmountInput(c.Args().First()))
						return nil
					},
				},
				{
					Name:      "format",
					Usage:     "format a stored or raw amount; prefixed values pass through",
					ArgsUsage: "VALUE",
					Action: func(c *cli.Context) error {
						fmt.Fprintln(env.out, core.FormatAmountString(c.Args().First()))
						return nil
					},
				},
			},
		},
		{
			Name:  "seed",
			Usage: "load the demo data set, or random records with --random",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "random", Usage: "generate N random invoices and N random receipts"},
				cli.BoolFlag{Name: "force", Usage: "overwrite existing records with the demo set"},
				cli.Int64Flag{Name: "seed", Usage: "random seed for reproducible output"},
			},
			Action: func(c *cli.Context) error {
				svc, err := env.services(ctx)
				if err != nil {
					return err
				}
				var opts []seed.Option
				if c.IsSet("seed") {
					opts = append(opts, seed.WithSeed(c.Int64("seed")))
				}
				seeder := seed.New(svc.Store, logger, opts...)

				var res seed.Result
				if n := c.Int("random"); n > 0 {
					res, err = seeder.LoadRandom(ctx, n)
				} else {
					res, err = seeder.LoadDemo(ctx, c.Bool("force"))
				}
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				fmt.Fprintf(env.out, "seeded %d invoices and %d receipts\n", res.Invoices, res.Receipts)
				return nil
			},
		},
	}
	return app
}

func idArg(c *cli.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, cli.NewExitError("a numeric record ID is required", 2)
	}
	return id, nil
}

func formInput(c *cli.Context, date string) core.FormInput {
	in := core.FormInput{
		Client:        c.String("client"),
		Description:   c.String("description"),
		Amount:        c.String("amount"),
		Date:          date,
		PaymentMethod: c.String("method"),
	}
	switch core.PaymentMethod(in.PaymentMethod) {
	case core.MethodTransfer:
		if c.String("bank-name") != "" || c.String("account-number") != "" {
			in.PaymentDetails = &core.PaymentDetails{Bank: &core.BankDetails{
				BankName:      c.String("bank-name"),
				AccountNumber: c.String("account-number"),
				AccountHolder: c.String("account-holder"),
			}}
		}
	case core.MethodEWallet:
		if c.String("provider") != "" || c.String("phone") != "" {
			in.PaymentDetails = &core.PaymentDetails{Wallet: &core.WalletDetails{
				Provider:    c.String("provider"),
				PhoneNumber: c.String("phone"),
				AccountName: c.String("account-name"),
			}}
		}
	}
	return in
}

func (e *commandEnv) printJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
