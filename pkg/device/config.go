package device

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/denisbrodbeck/machineid"
	"gopkg.in/yaml.v3"
)

// Config provides the options to assemble a device.
type Config struct {
	// ConfigFile is an optional YAML file, flags set on the command line
	// take precedence over it.
	ConfigFile string `yaml:"-"`

	// Identity is announced over the wireless link.
	Identity string `yaml:"identity"`
	// Hardware selects periph drivers, otherwise simulated ones are used.
	Hardware bool   `yaml:"hardware"`

	// SerialPort is the wired link device, disabled if empty.
	SerialPort string `yaml:"serial_port"`
	SerialBaud int    `yaml:"serial_baud"`

	// MQTTBrokerURL specifies the broker of the wireless link, e.g.
	// mqtt://host:port/topic-prefix. The link is simulated if empty.
	MQTTBrokerURL string `yaml:"mqtt_url"`
	PairGroup     string `yaml:"pair_group"`

	// MirrorAddr serves the display mirror, disabled if empty.
	MirrorAddr string `yaml:"mirror_addr"`
	// Joystick is the index of a gamepad used as keys, -1 to disable.
	Joystick   int    `yaml:"joystick"`

	I2CBus        string   `yaml:"i2c_bus"`
	SPIPort       string   `yaml:"spi_port"`
	IMUChipSelect string   `yaml:"imu_cs_pin"`
	AnalogChannel int      `yaml:"analog_channel"`
	KeyPins       []string `yaml:"key_pins"`
	LEDPins       []string `yaml:"led_pins"`
}

var defaultConfig = Config{
	Identity:      "gyropad",
	SerialBaud:    115200,
	PairGroup:     "default",
	Joystick:      -1,
	SPIPort:       "/dev/spidev0.0",
	IMUChipSelect: "GPIO8",
	AnalogChannel: 1,
	KeyPins:       []string{"GPIO5", "GPIO6", "GPIO13", "GPIO19"},
	LEDPins:       []string{"GPIO12", "GPIO16", "GPIO20", "GPIO21"},
}

func init() {
	if id, err := machineid.ProtectedID("gyropad"); err == nil && len(id) >= 8 {
		defaultConfig.Identity = "gyropad-" + id[:8]
	}
	if val := os.Getenv("GYROPAD_IDENTITY"); val != "" {
		defaultConfig.Identity = val
	}
	if val := os.Getenv("GYROPAD_CONFIG"); val != "" {
		defaultConfig.ConfigFile = val
	}
	if val := os.Getenv("GYROPAD_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("GYROPAD_SERIAL"); val != "" {
		defaultConfig.SerialPort = val
	}
	if val, err := strconv.ParseBool(os.Getenv("GYROPAD_HARDWARE")); err == nil {
		defaultConfig.Hardware = val
	}
}

// BindFlags binds the options to flags in fs.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "YAML config file")
	fs.StringVar(&c.Identity, "id", c.Identity, "Device identity")
	fs.BoolVar(&c.Hardware, "hw", c.Hardware, "Use hardware drivers")
	fs.StringVar(&c.SerialPort, "serial", c.SerialPort, "Serial device of the wired link")
	fs.IntVar(&c.SerialBaud, "baud", c.SerialBaud, "Serial baud rate")
	fs.StringVar(&c.MQTTBrokerURL, "mqtt", c.MQTTBrokerURL, "MQTT broker URL of the wireless link")
	fs.StringVar(&c.PairGroup, "group", c.PairGroup, "Pairing group")
	fs.StringVar(&c.MirrorAddr, "mirror", c.MirrorAddr, "Listen address of the display mirror")
	fs.IntVar(&c.Joystick, "js", c.Joystick, "Joystick index used as keys, -1 to disable")
	fs.StringVar(&c.I2CBus, "i2c", c.I2CBus, "I2C bus of display and ADC")
}

// SetupFlags sets command line flags.
func SetupFlags() {
	defaultConfig.BindFlags(flag.CommandLine)
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	conf.KeyPins = append([]string(nil), defaultConfig.KeyPins...)
	conf.LEDPins = append([]string(nil), defaultConfig.LEDPins...)
	return &conf
}

// LoadFile merges options from a YAML file.
func (c *Config) LoadFile(fn string) error {
	data, err := os.ReadFile(fn)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config %s: %w", fn, err)
	}
	return nil
}

// Resolve loads ConfigFile after fs is parsed and re-applies the flags
// explicitly set in fs, then validates the result.
func (c *Config) Resolve(fs *flag.FlagSet) error {
	if c.ConfigFile != "" {
		set := make(map[string]string)
		fs.Visit(func(f *flag.Flag) {
			set[f.Name] = f.Value.String()
		})
		if err := c.LoadFile(c.ConfigFile); err != nil {
			return err
		}
		for name, val := range set {
			if err := fs.Set(name, val); err != nil {
				return fmt.Errorf("flag %s: %w", name, err)
			}
		}
	}
	return c.Validate()
}

// Validate checks the options.
func (c *Config) Validate() error {
	if c.Identity == "" {
		return fmt.Errorf("identity must be specified")
	}
	if c.SerialPort != "" && c.SerialBaud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.SerialBaud)
	}
	if c.Hardware {
		if len(c.KeyPins) != 4 {
			return fmt.Errorf("4 key pins required, got %d", len(c.KeyPins))
		}
		if len(c.LEDPins) != 4 {
			return fmt.Errorf("4 LED pins required, got %d", len(c.LEDPins))
		}
	}
	return nil
}
