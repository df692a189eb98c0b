package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/ZaguanLabs/gotcat"
	"github.com/ZaguanLabs/gotcat/catalog"
)

func domainFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "domain",
		Aliases: []string{"d"},
		Usage:   "domain to look in (default: the configured default domain)",
	}
}

func contextFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "context",
		Usage: "message context (msgctxt)",
	}
}

func strictFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "strict",
		Usage: "fail when no translation exists",
	}
}

func usageError(cmd *cli.Command, msg string) error {
	_ = cli.ShowSubcommandHelp(cmd)
	return fmt.Errorf("%s: %s", cmd.Name, msg)
}

func translateCommand() *cli.Command {
	return &cli.Command{
		Name:      "translate",
		Usage:     "translate a message id",
		UsageText: "gotcat translate [options] MSGID",
		Flags:     []cli.Flag{domainFlag(), contextFlag(), strictFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return usageError(cmd, "expected exactly one MSGID")
			}
			msgID := cmd.Args().First()

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.activate(); err != nil {
				return err
			}

			r := s.translator.Lookup(msgID, cmd.String("domain"), cmd.String("context"))
			fmt.Fprintln(cmd.Root().Writer, r.Text)

			if !r.Found && cmd.Bool("strict") {
				return fmt.Errorf("no %s translation for %q", s.cfg.Locale, msgID)
			}
			return nil
		},
	}
}

func pluralCommand() *cli.Command {
	return &cli.Command{
		Name:      "plural",
		Usage:     "translate a plural message for a count",
		UsageText: "gotcat plural [options] MSGID MSGID_PLURAL N",
		Flags:     []cli.Flag{domainFlag(), contextFlag(), strictFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 3 {
				return usageError(cmd, "expected MSGID MSGID_PLURAL N")
			}
			args := cmd.Args()
			n, err := strconv.Atoi(args.Get(2))
			if err != nil {
				return usageError(cmd, fmt.Sprintf("invalid count %q", args.Get(2)))
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.activate(); err != nil {
				return err
			}

			r := s.translator.LookupPlural(args.Get(0), args.Get(1), n, cmd.String("domain"), cmd.String("context"))
			fmt.Fprintln(cmd.Root().Writer, r.Text)

			if !r.Found && cmd.Bool("strict") {
				return fmt.Errorf("no %s translation for %q (n=%d)", s.cfg.Locale, args.Get(0), n)
			}
			return nil
		},
	}
}

func keyCommand() *cli.Command {
	return &cli.Command{
		Name:      "key",
		Usage:     "print the cache key of a message",
		UsageText: "gotcat key [options] MSGID",
		Flags: []cli.Flag{
			domainFlag(),
			contextFlag(),
			&cli.IntFlag{
				Name:  "offset",
				Usage: "plural form offset",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "skip key cleaning",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return usageError(cmd, "expected exactly one MSGID")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			locale := gotcat.NormalizeLocale(cfg.Locale)
			domain := gotcat.CleanDomain(cmd.String("domain"))
			if domain == "" {
				domain = gotcat.CleanDomain(cfg.DefaultDomain)
			}
			cleaning := cfg.Cache.RequiresCleaning && !cmd.Bool("raw")

			key := gotcat.Key(cmd.Args().First(), domain, cmd.String("context"), locale, cmd.Int("offset"), cleaning)
			fmt.Fprintln(cmd.Root().Writer, key)
			return nil
		},
	}
}

func warmCommand() *cli.Command {
	return &cli.Command{
		Name:      "warm",
		Usage:     "load catalogs for several locales into the shared cache",
		UsageText: "gotcat warm [options] LOCALE...",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "locales loaded in parallel (0 = unlimited)",
				Value: 4,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			locales := cmd.Args().Slice()
			if len(locales) == 0 {
				return usageError(cmd, "expected at least one LOCALE")
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			start := time.Now()
			if err := s.translator.WarmLocales(ctx, locales, cmd.Int("concurrency")); err != nil {
				return err
			}

			fmt.Fprintf(cmd.Root().Writer, "warmed %s locale(s) across %s domain(s) in %s\n",
				humanize.Comma(int64(len(locales))),
				humanize.Comma(int64(len(s.translator.Domains()))),
				time.Since(start).Round(time.Millisecond))

			if counter, ok := s.backend.(interface{ Len() int }); ok {
				fmt.Fprintf(cmd.Root().Writer, "%s cached entries\n", humanize.Comma(int64(counter.Len())))
			}
			return nil
		},
	}
}

func diffCommand() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "compare the compiled keys of two .po files",
		UsageText: "gotcat diff [options] OLD.po NEW.po",
		Flags: []cli.Flag{
			domainFlag(),
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "print only the counts",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 2 {
				return usageError(cmd, "expected OLD.po NEW.po")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			locale := gotcat.NormalizeLocale(cfg.Locale)
			domain := gotcat.CleanDomain(cmd.String("domain"))
			reader := catalog.NewPOReader()

			compile := func(path string) (map[string]string, error) {
				entries, err := reader.ReadFile(path)
				if err != nil {
					return nil, err
				}
				return gotcat.BuildCatalog(entries, domain, locale, cfg.Cache.RequiresCleaning), nil
			}

			oldCatalog, err := compile(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			newCatalog, err := compile(cmd.Args().Get(1))
			if err != nil {
				return err
			}

			result := gotcat.DiffCatalogs(oldCatalog, newCatalog)
			w := cmd.Root().Writer

			if !cmd.Bool("summary") {
				for _, key := range result.Added {
					fmt.Fprintf(w, "+ %s: %q\n", key, newCatalog[key])
				}
				for _, key := range result.Removed {
					fmt.Fprintf(w, "- %s: %q\n", key, oldCatalog[key])
				}
				for _, m := range result.Modified {
					fmt.Fprintf(w, "~ %s: %q -> %q\n", m.Key, m.Old, m.New)
				}
			}

			stats := result.Stats()
			fmt.Fprintf(w, "%s added, %s removed, %s modified, %s unchanged\n",
				humanize.Comma(int64(stats.Added)),
				humanize.Comma(int64(stats.Removed)),
				humanize.Comma(int64(stats.Modified)),
				humanize.Comma(int64(stats.Unchanged)))
			return nil
		},
	}
}

func clearCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "remove every cached translation and freshness record",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if s.backend == nil {
				return fmt.Errorf("nothing to clear: cache type is %q", s.cfg.Cache.Type)
			}
			if err := s.translator.ClearCache(); err != nil {
				return err
			}

			s.log.Info().Str("cache", s.cfg.Cache.Type).Msg("Cache cleared")
			fmt.Fprintln(cmd.Root().Writer, "cache cleared")
			return nil
		},
	}
}
