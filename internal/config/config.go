package config

import (
	"fmt"
	"os"

	ouroboros "github.com/blinklabs-io/gouroboros"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Logging      LoggingConfig   `yaml:"logging"`
	Debug        DebugConfig     `yaml:"debug"`
	Storage      StorageConfig   `yaml:"storage"`
	Consensus    ConsensusConfig `yaml:"consensus"`
	Fee          FeeConfig       `yaml:"fee"`
	Reward       RewardConfig    `yaml:"reward"`
	Network      string          `yaml:"network" envconfig:"NETWORK"`
	NetworkMagic uint32
}

type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LOGGING_LEVEL"`
}

type DebugConfig struct {
	ListenAddress string `yaml:"address" envconfig:"DEBUG_ADDRESS"`
	ListenPort    uint   `yaml:"port" envconfig:"DEBUG_PORT"`
}

type StorageConfig struct {
	Directory string `yaml:"dir" envconfig:"STORAGE_DIR"`
}

// ConsensusConfig carries the block0-derived settings a ledger needs to
// evaluate the leader lottery and epoch boundaries (spec.md §6.3).
type ConsensusConfig struct {
	Discrimination        string `yaml:"discrimination"        envconfig:"DISCRIMINATION"`
	SlotsPerEpoch          uint32 `yaml:"slotsPerEpoch"          envconfig:"SLOTS_PER_EPOCH"`
	SlotDuration           uint8  `yaml:"slotDuration"           envconfig:"SLOT_DURATION"`
	EpochStabilityDepth    uint32 `yaml:"epochStabilityDepth"    envconfig:"EPOCH_STABILITY_DEPTH"`
	// ActiveSlotsCoefficient is expressed in thousandths (Milli), per spec.md §6.3.
	ActiveSlotsCoefficient uint32 `yaml:"activeSlotsCoefficient" envconfig:"ACTIVE_SLOTS_COEFFICIENT"`
	// KesUpdateSpeed is the number of slots a single KES period spans.
	KesUpdateSpeed uint32 `yaml:"kesUpdateSpeed" envconfig:"KES_UPDATE_SPEED"`
	// KesMaxEvolutions bounds the sum-composition KES key's depth (2^depth periods).
	KesMaxEvolutions uint32 `yaml:"kesMaxEvolutions" envconfig:"KES_MAX_EVOLUTIONS"`
	Block0Date       int64  `yaml:"block0Date" envconfig:"BLOCK0_DATE"`
}

// FeeConfig is the linear fee schedule from spec.md §4.5 step 2.
type FeeConfig struct {
	Constant    uint64 `yaml:"constant"    envconfig:"FEE_CONSTANT"`
	Coefficient uint64 `yaml:"coefficient" envconfig:"FEE_COEFFICIENT"`
	PerCert     uint64 `yaml:"perCertificate" envconfig:"FEE_PER_CERTIFICATE"`
	PerVoteCert uint64 `yaml:"perVoteCertificate" envconfig:"FEE_PER_VOTE_CERTIFICATE"`
}

// RewardConfig configures the reward contribution schedule from spec.md §4.3.
type RewardConfig struct {
	InitialValue     uint64 `yaml:"initialValue"     envconfig:"REWARD_INITIAL_VALUE"`
	ReducingType     string `yaml:"reducingType"     envconfig:"REWARD_REDUCING_TYPE"` // "linear" | "halving"
	ReducingEpochRate uint32 `yaml:"reducingEpochRate" envconfig:"REWARD_REDUCING_EPOCH_RATE"`
	RatioNumerator   uint64 `yaml:"ratioNumerator"   envconfig:"REWARD_RATIO_NUMERATOR"`
	RatioDenominator uint64 `yaml:"ratioDenominator" envconfig:"REWARD_RATIO_DENOMINATOR"`
	TreasuryTaxFixed uint64 `yaml:"treasuryTaxFixed" envconfig:"TREASURY_TAX_FIXED"`
	TreasuryTaxRatioNumerator   uint64 `yaml:"treasuryTaxRatioNumerator"   envconfig:"TREASURY_TAX_RATIO_NUMERATOR"`
	TreasuryTaxRatioDenominator uint64 `yaml:"treasuryTaxRatioDenominator" envconfig:"TREASURY_TAX_RATIO_DENOMINATOR"`
}

// Singleton config instance with default values
var globalConfig = &Config{
	Network: "mainnet",
	Logging: LoggingConfig{
		Level: "info",
	},
	Debug: DebugConfig{
		ListenAddress: "localhost",
		ListenPort:    0,
	},
	Storage: StorageConfig{
		Directory: "./.ledger-core",
	},
	Consensus: ConsensusConfig{
		Discrimination:         "production",
		SlotsPerEpoch:          21600,
		SlotDuration:           5,
		EpochStabilityDepth:    2160,
		ActiveSlotsCoefficient: 100, // 0.1 in Milli
		KesUpdateSpeed:         43200,
		KesMaxEvolutions:       256,
	},
	Reward: RewardConfig{
		ReducingType:      "halving",
		ReducingEpochRate: 1,
		RatioNumerator:    1,
		RatioDenominator:  2,
	},
}

func Load(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %s", err)
		}
		err = yaml.Unmarshal(buf, globalConfig)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %s", err)
		}
	}
	// Load config values from environment variables
	// We use "dummy" as the app name here to (mostly) prevent picking up env
	// vars that we hadn't explicitly specified in annotations above
	err := envconfig.Process("dummy", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %s", err)
	}
	// Populate network magic from network name
	network := ouroboros.NetworkByName(globalConfig.Network)
	if network == ouroboros.NetworkInvalid {
		return nil, fmt.Errorf("unknown network name: %s", globalConfig.Network)
	}
	globalConfig.NetworkMagic = network.NetworkMagic
	if globalConfig.Reward.ReducingEpochRate == 0 {
		globalConfig.Reward.ReducingEpochRate = 1
	}
	return globalConfig, nil
}

// Return global config instance
func GetConfig() *Config {
	return globalConfig
}
