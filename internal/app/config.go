package app

import (
	"os"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

var defaultFiles = []string{"quickmart.yaml", "/etc/quickmart/config.yaml"}

// Config holds the complete application configuration, loadable from
// environment variables (QUICKMART_ prefix), flags, or YAML config files.
type Config struct {
	Inventory     string `default:"databases/inventory.txt" usage:"Inventory file, gzip-compressed when it ends in .gz"`
	Receipt       string `default:"assets/receipt.txt" usage:"Receipt output file"`
	ErrorLog      string `default:"logs/errors.log" usage:"File collecting user-facing error messages" flag:"error-log"`
	TransactionNo int    `default:"1" usage:"Number printed on receipts" flag:"transaction-no"`
	RewardsMember bool   `default:"false" usage:"Start the session with a rewards member" flag:"rewards-member"`

	AdvanceTransactionNo bool `default:"false" usage:"Increment the transaction number after each checkout" flag:"advance-transaction-no"`
}

// LoadConfig loads configuration from environment variables, flags and YAML
// config files.
func LoadConfig() (*Config, error) {
	return loadConfig(os.Args[1:], defaultFiles)
}

func loadConfig(args, files []string) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "QUICKMART",
		Args:      args,
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Inventory == "" {
		return errors.New("inventory path is required: set QUICKMART_INVENTORY or --inventory")
	}
	if c.Receipt == "" {
		return errors.New("receipt path is required: set QUICKMART_RECEIPT or --receipt")
	}
	if c.TransactionNo <= 0 {
		return errors.Errorf("transaction number must be positive, got %d", c.TransactionNo)
	}
	return nil
}
