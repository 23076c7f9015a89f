// Command lshgo manages a durable LSH index stored in a SQLite database.
//
// The hash family configuration (family, projections, dimension, seed and
// the family parameters) is not persisted; pass the same flags to every
// invocation that were used at init, or queries will probe the wrong
// buckets.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/hupe1980/lshgo"
	"github.com/hupe1980/lshgo/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	dbPath      string
	indexID     string
	family      string
	projections int
	tables      int
	dim         int
	seed        uint64
	l2R         float64
	mipsU       float64
	mipsM       int
)

var rootCmd = &cobra.Command{
	Use:   "lshgo",
	Short: "CLI for SQLite-backed LSH indexes",
	Long:  `A command-line interface for storing and querying vectors in a durable locality-sensitive-hashing index.`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new index in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := table.NewSQLite(dbPath, tables)
		if err != nil {
			return fmt.Errorf("create index: %w", err)
		}
		defer st.Close()

		fmt.Printf("Index %s created in %s with %d table(s)\n", st.IndexID(), dbPath, tables)
		fmt.Println("Pass --id with this value to subsequent commands.")
		return nil
	},
}

var storeCmd = &cobra.Command{
	Use:   "store [vector]",
	Short: "Store a vector, or a file of vectors with --file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lsh, st, err := openIndex()
		if err != nil {
			return err
		}
		defer st.Close()

		file, _ := cmd.Flags().GetString("file")

		switch {
		case file != "":
			vecs, err := readVectorFile(file)
			if err != nil {
				return err
			}
			if err := lsh.StoreVecs(vecs); err != nil {
				return fmt.Errorf("store vectors: %w", err)
			}
			fmt.Printf("Stored %d vector(s)\n", len(vecs))
		case len(args) == 1:
			v, err := parseVector(args[0])
			if err != nil {
				return err
			}
			if err := lsh.StoreVec(v); err != nil {
				return fmt.Errorf("store vector: %w", err)
			}
			fmt.Println("Stored 1 vector")
		default:
			return fmt.Errorf("pass a vector argument or --file")
		}
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <vector>",
	Short: "Query the bucket union for a vector",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lsh, st, err := openIndex()
		if err != nil {
			return err
		}
		defer st.Close()

		v, err := parseVector(args[0])
		if err != nil {
			return err
		}

		idsOnly, _ := cmd.Flags().GetBool("ids")
		if idsOnly {
			ids, err := lsh.QueryBucketIDs(v)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		}

		vecs, err := lsh.QueryBucket(v)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		for _, vec := range vecs {
			fmt.Println(formatVector(vec))
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <vector>",
	Short: "Remove a vector's bucket membership",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lsh, st, err := openIndex()
		if err != nil {
			return err
		}
		defer st.Close()

		v, err := parseVector(args[0])
		if err != nil {
			return err
		}
		if err := lsh.DeleteVec(v); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		fmt.Println("Deleted")
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print a summary of table occupancy",
	RunE: func(cmd *cobra.Command, args []string) error {
		lsh, st, err := openIndex()
		if err != nil {
			return err
		}
		defer st.Close()

		desc, err := lsh.Describe()
		if err != nil {
			return fmt.Errorf("describe: %w", err)
		}
		fmt.Print(desc)
		return nil
	},
}

// openIndex reattaches to the stored tables and rebuilds the hashers from
// the family flags.
func openIndex() (*lshgo.LSH, *table.SQLite, error) {
	if indexID == "" {
		return nil, nil, fmt.Errorf("--id is required")
	}

	st, err := table.OpenSQLite(dbPath, indexID)
	if err != nil {
		return nil, nil, fmt.Errorf("open index: %w", err)
	}

	b := lshgo.New(projections, st.NumTables(), dim).Seed(seed).Storage(st)

	switch family {
	case "srp":
		b = b.SRP()
	case "l2":
		b = b.L2(float32(l2R))
	case "mips":
		b = b.MIPS(float32(l2R), float32(mipsU), mipsM)
	default:
		_ = st.Close()
		return nil, nil, fmt.Errorf("unknown family %q (want srp, l2 or mips)", family)
	}

	lsh, err := b.Build()
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	return lsh, st, nil
}

func parseVector(s string) ([]float32, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")

	v := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("parse component %d: %w", i, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

func formatVector(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
	}
	return strings.Join(parts, ",")
}

// readVectorFile parses one comma-separated vector per line. Parsing is
// fanned out across workers; line order is preserved so point-store
// indices match the file.
func readVectorFile(path string) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	vecs := make([][]float32, len(lines))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i, line := range lines {
		g.Go(func() error {
			v, err := parseVector(line)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			vecs[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return vecs, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "lshgo.db", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&indexID, "id", "", "index id (printed by init)")
	rootCmd.PersistentFlags().StringVar(&family, "family", "srp", "hash family: srp, l2 or mips")
	rootCmd.PersistentFlags().IntVar(&projections, "projections", 10, "hash projections per signature")
	rootCmd.PersistentFlags().IntVar(&dim, "dim", 0, "vector dimensionality")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "index seed (0 = random)")
	rootCmd.PersistentFlags().Float64Var(&l2R, "r", 4.0, "bucket width (l2 and mips)")
	rootCmd.PersistentFlags().Float64Var(&mipsU, "u", 0.83, "norm bound in (0,1) (mips)")
	rootCmd.PersistentFlags().IntVar(&mipsM, "m", 3, "extra transform terms (mips)")

	initCmd.Flags().IntVar(&tables, "tables", 10, "number of hash tables")

	storeCmd.Flags().String("file", "", "file with one comma-separated vector per line")
	queryCmd.Flags().Bool("ids", false, "print point indices instead of vectors")

	rootCmd.AddCommand(initCmd, storeCmd, queryCmd, deleteCmd, describeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
