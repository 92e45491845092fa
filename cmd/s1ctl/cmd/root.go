// Package cmd implements the s1ctl commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/s1sdk/login"
	"github.com/jonwraymond/s1sdk/platform"
	"github.com/jonwraymond/s1sdk/session"
)

// DefaultProfile names the host session used when --profile is not given.
const DefaultProfile = "default"

// Option customizes the root command.
type Option func(*rootOptions)

// WithLookup reads configuration through fn instead of the environment.
func WithLookup(fn platform.LookupFunc) Option {
	return func(o *rootOptions) { o.lookup = fn }
}

// WithConfig lets the caller adjust the loaded configuration before the
// platform is built.
func WithConfig(fn func(*platform.Config)) Option {
	return func(o *rootOptions) { o.configure = fn }
}

type rootOptions struct {
	profile    string
	profileDir string
	lookup     platform.LookupFunc
	configure  func(*platform.Config)

	app *app
}

// app is what every command works with once configuration is loaded.
type app struct {
	platform   *platform.Platform
	store      *session.HostStore
	session    *login.Session
	profile    string
	profileDir string
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd builds the s1ctl command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	o := &rootOptions{}
	for _, opt := range opts {
		opt(o)
	}

	root := &cobra.Command{
		Use:   "s1ctl",
		Short: "s1ctl - command-line client for the platform API",
		Long: `s1ctl signs and sends platform API calls.

Credentials and caches are configured through S1_* environment variables.
Login sessions are kept per profile below --profile-dir.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.load(cmd.Context())
			if err != nil {
				return err
			}
			o.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if o.app == nil {
				return nil
			}
			if err := o.app.store.Flush(cmd.Context()); err != nil {
				return fmt.Errorf("failed to save profile %s: %w", o.app.profile, err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&o.profile, "profile", DefaultProfile, "Profile holding the login session")
	root.PersistentFlags().StringVar(&o.profileDir, "profile-dir", defaultProfileDir(), "Directory holding profiles")

	current := func() *app { return o.app }
	root.AddCommand(
		newLoginCmd(current),
		newLogoutCmd(current),
		newStatusCmd(current),
		newCallCmd(current),
		newHasTokenCmd(current),
		newRolesCmd(current),
		newHealthCmd(current),
	)
	return root
}

func (o *rootOptions) load(ctx context.Context) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var envOpts []platform.EnvOption
	if o.lookup != nil {
		envOpts = append(envOpts, platform.WithLookup(o.lookup))
	}
	cfg, err := platform.FromEnv(ctx, envOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	backend, err := session.NewFileBackend(o.profileDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile directory: %w", err)
	}
	store := session.NewHostStore(backend)
	if err := store.Start(ctx, o.profile); err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", o.profile, err)
	}
	cfg.SessionStore = store

	if o.configure != nil {
		o.configure(&cfg)
	}
	p, err := platform.New(cfg)
	if err != nil {
		return nil, err
	}

	return &app{
		platform:   p,
		store:      store,
		session:    p.NewSession(store),
		profile:    o.profile,
		profileDir: o.profileDir,
	}, nil
}

func defaultProfileDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".s1ctl"
	}
	return filepath.Join(home, ".s1ctl")
}
