// Command gendata writes the generated demonstration datasets as CSV
// files, for loading through the upload endpoints or for offline use.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/orestat/orestat/internal/domain/dataset"
	"github.com/orestat/orestat/internal/example"
)

func main() {
	var (
		outDir        = flag.String("out", ".", "Output directory for the generated CSV files")
		seed          = flag.Int64("seed", example.DefaultSeed, "Random seed for the generators")
		compositeRows = flag.Int("composite-rows", 0, "Composite row count (0 keeps the default)")
		blockRows     = flag.Int("block-rows", 0, "Block model row count (0 keeps the default)")
	)
	flag.Parse()

	opts := []example.Option{example.WithSeed(*seed)}
	if *compositeRows > 0 || *blockRows > 0 {
		opts = append(opts, example.WithRows(*compositeRows, *blockRows))
	}
	gen := example.NewGenerator(opts...)

	composite, _, err := gen.Composite()
	if err != nil {
		fail("generate composite dataset: " + err.Error())
	}
	block, _, err := gen.Block()
	if err != nil {
		fail("generate block dataset: " + err.Error())
	}

	for name, ds := range map[string]*dataset.Dataset{
		"composites_example.csv":  composite,
		"block_model_example.csv": block,
	} {
		if err := writeCSV(filepath.Join(*outDir, name), ds); err != nil {
			fail("write " + name + ": " + err.Error())
		}
		os.Stdout.WriteString(name + "\n")
	}
}

func writeCSV(path string, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ds.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func fail(msg string) {
	os.Stderr.WriteString(msg + "\n")
	os.Exit(1)
}
