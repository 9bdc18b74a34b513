package main

import (
	"fmt"
	"os"
	"runtime"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/leasepool/pkg/config"
	"github.com/ajitpratap0/leasepool/pkg/logger"
	"github.com/ajitpratap0/leasepool/pkg/snapshot"
)

var version = "0.1.0"

// snapshotEnvelope mirrors the persisted pool layout without binding to a
// concrete element type, so any snapshot can be inspected or stripped.
type snapshotEnvelope struct {
	Type      string            `json:"type"`
	Mode      string            `json:"mode"`
	Instances []json.RawMessage `json:"instances"`
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	var configFile, dir, compression string

	root := &cobra.Command{
		Use:   "leasepool",
		Short: "Leasepool - snapshot tooling for leasing object pools",
		Long: `Leasepool manages persisted pool snapshots: listing them, inspecting
their contents, and stripping instance data from snapshots that should not
carry it.`,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to YAML configuration file (optional)")
	root.PersistentFlags().StringVar(&dir, "dir", "", "Snapshot directory (overrides configuration)")
	root.PersistentFlags().StringVar(&compression, "compression", "", "Snapshot compression algorithm (overrides configuration)")

	// Version command
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Leasepool v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	// List command to show snapshots in the configured directory
	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List snapshots in the snapshot directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(configFile, dir, compression)
			if err != nil {
				return err
			}
			names, err := store.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("No snapshots found")
				return nil
			}
			fmt.Println("Snapshots:")
			for _, name := range names {
				fmt.Printf("  - %s\n", name)
			}
			return nil
		},
	})

	// Inspect command to describe a snapshot without loading a typed pool
	root.AddCommand(&cobra.Command{
		Use:   "inspect <name>",
		Short: "Show a snapshot's element type, serialization mode, and instance count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(configFile, dir, compression)
			if err != nil {
				return err
			}
			env, err := readEnvelope(store, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Snapshot:  %s\n", args[0])
			fmt.Printf("Type:      %s\n", env.Type)
			fmt.Printf("Mode:      %s\n", env.Mode)
			fmt.Printf("Instances: %d\n", len(env.Instances))
			return nil
		},
	})

	// Strip command to drop instance data while keeping the envelope
	root.AddCommand(&cobra.Command{
		Use:   "strip <name>",
		Short: "Rewrite a snapshot with an empty instance list",
		Long: `Strip removes all persisted instances from a snapshot while keeping its
type identity and serialization mode. A stripped snapshot reloads as an
empty pool that must be repopulated with Add.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(configFile, dir, compression)
			if err != nil {
				return err
			}
			env, err := readEnvelope(store, args[0])
			if err != nil {
				return err
			}
			stripped := len(env.Instances)
			env.Instances = []json.RawMessage{}
			if err := snapshot.Save(store, args[0], env); err != nil {
				return err
			}
			logger.Info("stripped snapshot",
				zap.String("snapshot", args[0]),
				zap.Int("instances_removed", stripped))
			fmt.Printf("Stripped %d instance(s) from %s\n", stripped, args[0])
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig builds the effective configuration from the optional YAML file
// and command line overrides.
func loadConfig(configFile, dir, compression string) (*config.Config, error) {
	cfg := config.NewDefault()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dir != "" {
		cfg.Snapshot.Dir = dir
	}
	if compression != "" {
		cfg.Snapshot.Compression = compression
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore initializes logging and opens the configured snapshot store.
func openStore(configFile, dir, compression string) (*snapshot.FileStore, error) {
	cfg, err := loadConfig(configFile, dir, compression)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		Encoding:    cfg.Logging.Encoding,
	}); err != nil {
		return nil, err
	}
	return snapshot.NewFileStore(snapshot.FileStoreConfig{
		Dir:         cfg.Snapshot.Dir,
		Compression: cfg.Snapshot.CompressionAlgorithm(),
		Extension:   cfg.Snapshot.Extension,
	})
}

// readEnvelope loads and decodes a snapshot without a concrete element type.
func readEnvelope(store *snapshot.FileStore, name string) (*snapshotEnvelope, error) {
	var env snapshotEnvelope
	if err := snapshot.Load(store, name, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
