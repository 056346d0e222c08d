package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of
	// the daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the
	// values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// OracleAddressKey is the only identity authorized to deliver verdicts
	// and report payouts
	OracleAddressKey = "ORACLE_ADDRESS"
	// TriggerFeeKey is the fee charged for every oracle trigger request
	TriggerFeeKey = "TRIGGER_FEE"
	// TriggerFeeTokenKey is the token the trigger fee is denominated in
	TriggerFeeTokenKey = "TRIGGER_FEE_TOKEN"
	// PollIntervalKey defines how often, in milliseconds, pending triggers
	// are polled for a verdict
	PollIntervalKey = "POLL_INTERVAL"
	// PollRequestsPerSecondKey caps the polling rate towards the verdict
	// provider
	PollRequestsPerSecondKey = "POLL_REQUESTS_PER_SECOND"
	// EnableProfilerKey enables periodic process statistics
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines the interval in seconds for printing basic
	// process statistics
	StatsIntervalKey = "STATS_INTERVAL"

	DBBadger   = "badger"
	DBInMemory = "inmemory"

	DbLocation       = "db"
	ProfilerLocation = "stats"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("pearscrow-daemon", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("PEARSCROW")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(TriggerFeeKey, 0)
	vip.SetDefault(PollIntervalKey, 1000)
	vip.SetDefault(PollRequestsPerSecondKey, 10)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

func GetFloat(key string) float64 {
	return vip.GetFloat64(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetAddress parses the value of the given key as an ethereum-style 20-byte
// hex address.
func GetAddress(key string) common.Address {
	return common.HexToAddress(GetString(key))
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	dbType := GetString(DBTypeKey)
	if dbType != DBBadger && dbType != DBInMemory {
		return fmt.Errorf(
			"%s must be either %s or %s", DBTypeKey, DBBadger, DBInMemory,
		)
	}

	oracleAddress := GetString(OracleAddressKey)
	if !common.IsHexAddress(oracleAddress) {
		return fmt.Errorf("%s must be a valid 20-byte hex address", OracleAddressKey)
	}

	if GetUint64(TriggerFeeKey) > 0 {
		feeToken := GetString(TriggerFeeTokenKey)
		if !common.IsHexAddress(feeToken) {
			return fmt.Errorf(
				"%s must be a valid 20-byte hex address when %s is set",
				TriggerFeeTokenKey, TriggerFeeKey,
			)
		}
	}

	if GetInt(PollIntervalKey) <= 0 {
		return fmt.Errorf("%s must be greater than 0", PollIntervalKey)
	}
	if GetFloat(PollRequestsPerSecondKey) <= 0 {
		return fmt.Errorf("%s must be greater than 0", PollRequestsPerSecondKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}

	if GetBool(EnableProfilerKey) {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
