package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/japaniel/vocabdrill/pkg/config"
	"github.com/japaniel/vocabdrill/pkg/console"
	"github.com/japaniel/vocabdrill/pkg/enrich"
	"github.com/japaniel/vocabdrill/pkg/harvest"
	"github.com/japaniel/vocabdrill/pkg/quiz"
	"github.com/japaniel/vocabdrill/pkg/reading"
	"github.com/japaniel/vocabdrill/pkg/remote"
	"github.com/japaniel/vocabdrill/pkg/session"
	"github.com/japaniel/vocabdrill/pkg/source"
	"github.com/japaniel/vocabdrill/pkg/store"
	"github.com/japaniel/vocabdrill/pkg/trainer"
	"github.com/japaniel/vocabdrill/pkg/words"
)

func main() {
	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "vocabdrill",
		Short:        "Drill vocabulary harvested from lesson pages, the online dictionary and a word file",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v)
		},
	}

	f := cmd.Flags()
	f.IntP("count", "c", 20, "number of words to train")
	f.BoolP("offline", "o", false, "skip network enrichment")
	f.Bool("use-cache", true, "start from the saved word store")
	f.String("direction", words.NativeToForeign.String(), "native-to-foreign or foreign-to-native")
	f.String("store", store.DefaultPath, "word store file (.json, or .db for SQLite)")
	f.StringP("dir", "d", "", "directory with saved lesson pages")
	f.StringP("login", "l", "", "login for the vocabulary service")
	f.StringP("password", "p", "", "password for the vocabulary service")
	f.StringP("student", "s", "", "student account id for the vocabulary service")
	f.String("dictionary", "", "personal NAME:TRANSLATION dictionary file")
	f.String("provider", enrich.ProviderSentenceStack, "enrichment provider: sentencestack, freedict or none")
	f.String("log-level", "warn", "log level")

	bindFlagToViper(v, "count", f.Lookup("count"))
	bindFlagToViper(v, "offline", f.Lookup("offline"))
	bindFlagToViper(v, "use_cache", f.Lookup("use-cache"))
	bindFlagToViper(v, "direction", f.Lookup("direction"))
	bindFlagToViper(v, "store_path", f.Lookup("store"))
	bindFlagToViper(v, "sources.pages_dir", f.Lookup("dir"))
	bindFlagToViper(v, "sources.login", f.Lookup("login"))
	bindFlagToViper(v, "sources.password", f.Lookup("password"))
	bindFlagToViper(v, "sources.account", f.Lookup("student"))
	bindFlagToViper(v, "sources.dictionary_path", f.Lookup("dictionary"))
	bindFlagToViper(v, "enrich.provider", f.Lookup("provider"))
	bindFlagToViper(v, "log.level", f.Lookup("log-level"))
	return cmd
}

func bindFlagToViper(v *viper.Viper, key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(v.BindPFlag(key, flag))
}

func run(cmd *cobra.Command, v *viper.Viper) error {
	ctx := cmd.Context()

	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger := cfg.NewLogger()
	logger.SetOutput(cmd.ErrOrStderr())

	st, closeStore, err := store.Open(cfg.StorePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.WithError(err).Warn("closing word store")
		}
	}()

	out := console.New(cmd.OutOrStdout())
	t := &trainer.Trainer{
		Store:     st,
		Harvester: newHarvester(cfg, logger, out),
		Enricher:  newEnricher(cfg, logger, out),
		Engine:    quiz.New(cmd.InOrStdin(), out, words.Date{}),
		Log:       logger,
		Rand:      session.NewRand(),
	}

	outcome, err := t.Run(ctx, trainer.Options{
		Count:    cfg.Count,
		Offline:  cfg.Offline,
		UseCache: cfg.UseCache,
	})
	if err != nil {
		if errors.Is(err, trainer.ErrSave) {
			logger.WithError(err).Error("review progress was not saved")
		}
		return err
	}
	if outcome.Empty {
		out.Style(console.Default)
		out.Line("The list of words is empty.")
		return nil
	}
	logger.WithFields(logrus.Fields{
		"presented":    outcome.Presented,
		"failed":       outcome.Failed,
		"retried":      outcome.Retried,
		"retry_failed": outcome.RetryFailed,
	}).Info("session finished")
	return nil
}

func newHarvester(cfg *config.Config, logger *logrus.Logger, out console.Output) *harvest.Harvester {
	var provider source.VocabularyProvider
	if cfg.Sources.Login != "" {
		provider = remote.NewClient(remote.Endpoints{
			Auth:       cfg.Remote.AuthURL,
			API:        cfg.Remote.APIURL,
			Dictionary: cfg.Remote.DictionaryURL,
		}, cfg.Remote.Timeout, logger)
	}
	return harvest.New(harvest.Inputs{
		PagesDir: cfg.Sources.PagesDir,
		Credentials: source.Credentials{
			Login:    cfg.Sources.Login,
			Password: cfg.Sources.Password,
		},
		Account:        cfg.Sources.Account,
		LoginTimeout:   cfg.Remote.LoginTimeout,
		DictionaryPath: cfg.Sources.DictionaryPath,
		OnLessonPage: func(p source.Page) {
			out.Style(console.Info)
			out.Line(fmt.Sprintf("Lesson %q: %d words", p.Title, p.Pairs))
			out.Style(console.Default)
		},
	}, provider, cfg.DirectionValue(), logger)
}

func newEnricher(cfg *config.Config, logger *logrus.Logger, out console.Output) *enrich.Enricher {
	// provider name was checked by Validate
	lookup, _ := enrich.NewLookup(cfg.Enrich.Provider, cfg.Enrich.BaseURL, cfg.Remote.Timeout, logger)
	e := &enrich.Enricher{
		Lookup:       lookup,
		Probe:        enrich.HTTPProbe{URL: cfg.Enrich.ProbeURL, Timeout: cfg.Enrich.ProbeTimeout},
		Direction:    cfg.DirectionValue(),
		MaxSentences: cfg.Enrich.MaxSentences,
		Log:          logger,
		Out:          out,
	}
	if cfg.Enrich.Transcribe {
		e.Transcriber = &reading.LazyTranscriber{}
	}
	return e
}
