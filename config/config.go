// Package config loads pendulum simulation parameters.
//
// Parameters default to the reference scenario and can be overridden
// by a configuration file (TOML, YAML or JSON) and PENDULUM_* environment
// variables, e.g. PENDULUM_MODEL_RADIUS=0.8.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/milosgajdos/go-pendulum/matrix"
	"github.com/milosgajdos/go-pendulum/model"
	"github.com/milosgajdos/go-pendulum/sim"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/mat"
)

const envPrefix = "PENDULUM"

// Model holds physical parameters of the pendulum
type Model struct {
	Radius  float64 `mapstructure:"radius"`
	Gravity float64 `mapstructure:"gravity"`
}

// Simulation holds simulation parameters
type Simulation struct {
	// Horizon is simulation time horizon Tf
	Horizon float64 `mapstructure:"horizon"`
	// Step is sampling period Ts
	Step float64 `mapstructure:"step"`
	// Initial is initial state q0
	Initial []float64 `mapstructure:"initial"`
	// Guard enables singularity checks
	Guard bool `mapstructure:"guard"`
}

// Weights holds diagonals of LQR cost weights
type Weights struct {
	State []float64 `mapstructure:"state"`
	Input []float64 `mapstructure:"input"`
}

// Output holds output settings
type Output struct {
	Dir string `mapstructure:"dir"`
}

// Config is pendulum simulation configuration
type Config struct {
	Model      Model      `mapstructure:"model"`
	Simulation Simulation `mapstructure:"simulation"`
	Weights    Weights    `mapstructure:"weights"`
	Output     Output     `mapstructure:"output"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Model: Model{
			Radius:  model.Radius,
			Gravity: model.Gravity,
		},
		Simulation: Simulation{
			Horizon: 10.0,
			Step:    0.05,
			Initial: []float64{0, 0, 0.1, 0, 0, 0, 0, -0.15, 0, 0, 0, 0},
			Guard:   false,
		},
		Weights: Weights{
			State: ones(model.StateLen),
			Input: ones(model.InputLen),
		},
		Output: Output{
			Dir: ".",
		},
	}
}

// Load reads configuration from the file in path and returns it.
// Keys missing from the file keep their default values.
// If path is empty only defaults and environment variables are used.
// It returns error if the file can not be read or the configuration is invalid.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v, Default())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("model.radius", c.Model.Radius)
	v.SetDefault("model.gravity", c.Model.Gravity)
	v.SetDefault("simulation.horizon", c.Simulation.Horizon)
	v.SetDefault("simulation.step", c.Simulation.Step)
	v.SetDefault("simulation.initial", c.Simulation.Initial)
	v.SetDefault("simulation.guard", c.Simulation.Guard)
	v.SetDefault("weights.state", c.Weights.State)
	v.SetDefault("weights.input", c.Weights.Input)
	v.SetDefault("output.dir", c.Output.Dir)
}

// Validate checks the configuration.
// It returns *pendulum.ModelError if the model parameters are invalid
// and error if any other parameter is invalid.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}

	if !positive(c.Simulation.Horizon) {
		return fmt.Errorf("invalid simulation horizon: %g", c.Simulation.Horizon)
	}

	if !positive(c.Simulation.Step) {
		return fmt.Errorf("invalid simulation step: %g", c.Simulation.Step)
	}

	if _, err := c.Samples(); err != nil {
		return fmt.Errorf("invalid simulation grid: %w", err)
	}

	if len(c.Simulation.Initial) != model.StateLen {
		return fmt.Errorf("invalid initial state length: %d", len(c.Simulation.Initial))
	}

	for i, q := range c.Simulation.Initial {
		if math.IsNaN(q) || math.IsInf(q, 0) {
			return fmt.Errorf("invalid initial state q%d: %g", i, q)
		}
	}

	if len(c.Weights.State) != model.StateLen {
		return fmt.Errorf("invalid state weight length: %d", len(c.Weights.State))
	}

	for i, w := range c.Weights.State {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("invalid state weight %d: %g", i, w)
		}
	}

	if len(c.Weights.Input) != model.InputLen {
		return fmt.Errorf("invalid input weight length: %d", len(c.Weights.Input))
	}

	for i, w := range c.Weights.Input {
		if !positive(w) {
			return fmt.Errorf("invalid input weight %d: %g", i, w)
		}
	}

	return nil
}

// Params returns pendulum model parameters
func (c *Config) Params() model.Params {
	return model.Params{
		Radius:  c.Model.Radius,
		Gravity: c.Model.Gravity,
	}
}

// StateWeight returns diagonal state cost weight Q
func (c *Config) StateWeight() (*mat.SymDense, error) {
	return matrix.Diag(c.Weights.State)
}

// InputWeight returns diagonal input cost weight R
func (c *Config) InputWeight() (*mat.SymDense, error) {
	return matrix.Diag(c.Weights.Input)
}

// InitialState returns initial state q0
func (c *Config) InitialState() *mat.VecDense {
	q0 := make([]float64, len(c.Simulation.Initial))
	copy(q0, c.Simulation.Initial)

	return mat.NewVecDense(len(q0), q0)
}

// Samples returns number of simulation samples
func (c *Config) Samples() (int, error) {
	return sim.Samples(c.Simulation.Horizon, c.Simulation.Step)
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1.0
	}

	return v
}
