package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultFilename   = "test_data/conv_forward_test_data.vh"
	DefaultGuardMacro = "CONV_FORWARD_TEST_H"
)

type Config struct {
	Generator GeneratorConfig `mapstructure:"generator"`
	Output    OutputConfig    `mapstructure:"output"`
	LogLevel  string          `mapstructure:"log_level"`
}

type GeneratorConfig struct {
	NumTests     int   `mapstructure:"num_tests"`
	UpperRange   int   `mapstructure:"upper_range"`
	LowerRange   int   `mapstructure:"lower_range"`
	VectorLength int   `mapstructure:"vector_length"`
	BiasTerm     bool  `mapstructure:"bias_term"`
	Seed         int64 `mapstructure:"seed"`
}

type OutputConfig struct {
	Filename   string `mapstructure:"filename"`
	Debug      bool   `mapstructure:"debug"`
	GuardMacro string `mapstructure:"guard_macro"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// flagKeys maps each CLI flag onto its viper key.
var flagKeys = []struct {
	flag string
	key  string
}{
	{"num-tests", "generator.num_tests"},
	{"upper-range", "generator.upper_range"},
	{"lower-range", "generator.lower_range"},
	{"vector-length", "generator.vector_length"},
	{"bias-term", "generator.bias_term"},
	{"seed", "generator.seed"},
	{"filename", "output.filename"},
	{"debug", "output.debug"},
	{"guard-macro", "output.guard_macro"},
	{"log-level", "log_level"},
}

func DefaultConfig() Config {
	return Config{
		Generator: GeneratorConfig{
			NumTests:     10000,
			UpperRange:   100,
			LowerRange:   -100,
			VectorLength: 8,
			BiasTerm:     false,
			Seed:         0,
		},
		Output: OutputConfig{
			Filename:   DefaultFilename,
			Debug:      false,
			GuardMacro: DefaultGuardMacro,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.IntP("num-tests", "n", defaults.Generator.NumTests, "Number of test cases to generate")
	fs.Int("upper-range", defaults.Generator.UpperRange, "Exclusive upper bound of the random range (alias -ur)")
	fs.Int("lower-range", defaults.Generator.LowerRange, "Inclusive lower bound of the random range (alias -lr)")
	fs.IntP("vector-length", "l", defaults.Generator.VectorLength, "Length of the input and weight vectors")
	fs.BoolP("bias-term", "b", defaults.Generator.BiasTerm, "Add a random bias term to every output")
	fs.Int64P("seed", "s", defaults.Generator.Seed, "PRNG seed (0 = pick one and log it)")
	fs.StringP("filename", "f", defaults.Output.Filename, "Location of the header file to create")
	fs.BoolP("debug", "d", defaults.Output.Debug, "Also emit plain decimal lines inside //DEBUG markers")
	fs.String("guard-macro", defaults.Output.GuardMacro, "Macro name used for the `ifndef header guard")
	fs.String("log-level", defaults.LogLevel, "Log level: debug|info|warn|error")
	fs.SetNormalizeFunc(NormalizeFlagName)
}

// NormalizeFlagName lets the upper-case underscore spellings (--NUM_TESTS,
// --BIAS_TERM, ...) resolve to the registered flags.
func NormalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(strings.ToLower(name), "_", "-"))
}

// shortAliases are two-letter single-dash options that pflag cannot register
// as shorthands.
var shortAliases = map[string]string{
	"-ur": "--upper-range",
	"-lr": "--lower-range",
}

// ExpandShortAliases rewrites -ur/-lr in their "-ur 5", "-ur=5" and "-ur5"
// forms into the long flag names. Arguments after "--" are left untouched.
func ExpandShortAliases(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		out = append(out, expandShortAlias(arg))
	}
	return out
}

func expandShortAlias(arg string) string {
	for short, long := range shortAliases {
		if arg == short {
			return long
		}
		if !strings.HasPrefix(arg, short) {
			continue
		}
		rest := strings.TrimPrefix(arg[len(short):], "=")
		if rest == "" {
			return long
		}
		return long + "=" + rest
	}
	return arg
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("CONVTESTGEN")
	replacer := strings.NewReplacer("-", "_", ".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("convtestgen")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("generator.num_tests", c.Generator.NumTests)
	v.SetDefault("generator.upper_range", c.Generator.UpperRange)
	v.SetDefault("generator.lower_range", c.Generator.LowerRange)
	v.SetDefault("generator.vector_length", c.Generator.VectorLength)
	v.SetDefault("generator.bias_term", c.Generator.BiasTerm)
	v.SetDefault("generator.seed", c.Generator.Seed)
	v.SetDefault("output.filename", c.Output.Filename)
	v.SetDefault("output.debug", c.Output.Debug)
	v.SetDefault("output.guard_macro", c.Output.GuardMacro)
	v.SetDefault("log_level", c.LogLevel)
}

// bindFlags binds every known flag present in fs to its nested key. Flags only
// override lower layers when set explicitly, so config file values survive.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, fk := range flagKeys {
		f := fs.Lookup(fk.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(fk.key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", fk.flag, err)
		}
	}
	return nil
}

var verilogIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// Validate rejects configurations that would produce an empty sampling range
// or an unusable header.
func (c Config) Validate() error {
	g := c.Generator
	if g.NumTests < 1 {
		return fmt.Errorf("num-tests must be at least 1 (got %d)", g.NumTests)
	}
	if g.VectorLength < 1 {
		return fmt.Errorf("vector-length must be at least 1 (got %d)", g.VectorLength)
	}
	if g.LowerRange > g.UpperRange {
		return fmt.Errorf("lower-range %d exceeds upper-range %d", g.LowerRange, g.UpperRange)
	}
	if strings.TrimSpace(c.Output.Filename) == "" {
		return errors.New("filename must not be empty")
	}
	if !verilogIdent.MatchString(c.Output.GuardMacro) {
		return fmt.Errorf("guard-macro %q is not a valid Verilog identifier", c.Output.GuardMacro)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
