package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bcaldwell/statementimporter/internal/statementimporter"
	"github.com/bcaldwell/statementimporter/pkg/classifier"
	"github.com/bcaldwell/statementimporter/pkg/config"
	"github.com/bcaldwell/statementimporter/pkg/extractor"
	"github.com/bcaldwell/statementimporter/pkg/processor"
	"github.com/bcaldwell/statementimporter/pkg/statement"
)

// category_report classifies statement files without storing them and prints
// how the rules filed each row. With -compare it instead lists stored rows
// the current rules would file differently, the rows a reclassify run changes.
func main() {
	configFile := flag.String("config", "./config.yml", "configuration file")
	secretsFile := flag.String("secrets", "./secrets.ejson", "secrets file")
	bankName := flag.String("bank", "IDFC", "bank the statements are from")
	compare := flag.Bool("compare", false, "compare stored transactions against the current rules")
	flag.Parse()

	registry := processor.DefaultRegistry()
	bank, ok := registry.Get(*bankName)
	if !ok {
		fmt.Printf("unknown bank %s, known banks: %v\n", *bankName, registry.Names())
		os.Exit(1)
	}

	if *compare {
		err := config.ReadConfig(config.DefaultConfigEnvVar, *configFile, *secretsFile)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		if err := compareStored(registry, bank); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		return
	}

	p := processor.New(bank, processor.Options{})
	byCategory := make(map[statement.Category][]string)

	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		txns, err := p.Process(context.Background(), extractor.File{Name: filepath.Base(path), Data: data})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		for _, txn := range txns {
			byCategory[txn.Category] = append(byCategory[txn.Category], txn.Description)
		}
	}

	counts := make(map[string]int)
	for category, descriptions := range byCategory {
		counts[category.String()] = len(descriptions)
	}

	PrettyPrint("counts", counts)
	PrettyPrint("unknown", byCategory[statement.CategoryUnknown])
}

func compareStored(registry *processor.Registry, bank processor.Bank) error {
	ctx := context.Background()

	runner, err := statementimporter.NewImportStatementRunnerFromConfig(ctx, registry)
	if err != nil {
		return err
	}
	defer runner.Close()

	stored, err := runner.Feeder().Stored(ctx)
	if err != nil {
		return err
	}

	loc, err := config.CurrentConfig().Location()
	if err != nil {
		return err
	}

	c := classifier.New(bank.Rules, loc)
	changed := make(map[string][]string)

	for _, txn := range stored {
		result := c.Classify(statement.RawRow{
			TransactionDate: txn.TransactionAt.In(loc).Format("2006-01-02"),
			Description:     txn.Description,
		})

		if result.Category != txn.Category {
			key := txn.Category.String() + "-" + result.Category.String()
			changed[key] = append(changed[key], txn.Description)
		}
	}

	keys := make([]string, 0, len(changed))
	for k := range changed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		PrettyPrint(k, changed[k])
	}

	return nil
}

func PrettyPrint(prefix string, v interface{}) (err error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err == nil {
		fmt.Println(prefix + ": " + string(b))
	}
	return
}
