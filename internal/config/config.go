// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-meter/internal/pipeline"
	"github.com/alvinbaena/pwd-meter/internal/util"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"github.com/alvinbaena/pwd-meter/pkg/animate"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"reflect"
	"strings"
	"time"
)

const EnvPrefix = "PWDMETER"

// Keys, also used to bind cobra flags on top of the environment.
const (
	KeyAnalyzerURL         = "ANALYZER_URL"
	KeyDebounce            = "DEBOUNCE"
	KeyRequestTimeout      = "REQUEST_TIMEOUT"
	KeyAnimationDuration   = "ANIMATION_DURATION"
	KeyConnectivityMessage = "CONNECTIVITY_MESSAGE"
	KeyStaleResultPolicy   = "STALE_RESULT_POLICY"
	KeyDebug               = "DEBUG"
	KeyPort                = "PORT"
	KeySelfTLS             = "SELF_TLS"
	KeyTLSCert             = "TLS_CERT"
	KeyTLSKey              = "TLS_KEY"
	KeyBlocklistFile       = "BLOCKLIST_FILE"
	KeyCacheEntries        = "CACHE_ENTRIES"
)

// Config is what the client side commands (watch, check, batch) need.
type Config struct {
	AnalyzerURL         string        `mapstructure:"ANALYZER_URL" validate:"required,url"`
	Debounce            time.Duration `mapstructure:"DEBOUNCE" validate:"gte=0"`
	RequestTimeout      time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gt=0"`
	AnimationDuration   time.Duration `mapstructure:"ANIMATION_DURATION" validate:"gt=0"`
	ConnectivityMessage string        `mapstructure:"CONNECTIVITY_MESSAGE" validate:"required"`
	StaleResultPolicy   string        `mapstructure:"STALE_RESULT_POLICY" validate:"oneof=dim hide"`
	Debug               bool          `mapstructure:"DEBUG"`
}

// ServerConfig is what the reference evaluator needs.
type ServerConfig struct {
	Port          uint16 `mapstructure:"PORT" validate:"required"`
	SelfTLS       bool   `mapstructure:"SELF_TLS"`
	TLSCert       string `mapstructure:"TLS_CERT" validate:"required_with=TLSKey"`
	TLSKey        string `mapstructure:"TLS_KEY" validate:"required_with=TLSCert"`
	BlocklistFile string `mapstructure:"BLOCKLIST_FILE" validate:"omitempty,file"`
	CacheEntries  int64  `mapstructure:"CACHE_ENTRIES" validate:"gte=0"`
	Debug         bool   `mapstructure:"DEBUG"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAnalyzerURL, analysis.DefaultBaseURL)
	v.SetDefault(KeyDebounce, pipeline.DefaultDebounce)
	v.SetDefault(KeyRequestTimeout, analysis.DefaultTimeout)
	v.SetDefault(KeyAnimationDuration, animate.DefaultDuration)
	v.SetDefault(KeyConnectivityMessage, pipeline.DefaultConnectivityMessage)
	v.SetDefault(KeyStaleResultPolicy, "dim")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyPort, 8000)
	v.SetDefault(KeySelfTLS, false)
	v.SetDefault(KeyCacheEntries, 10000)
}

func bindEnvs(v *viper.Viper, iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		fv := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch fv.Kind() {
		case reflect.Struct:
			bindEnvs(v, fv.Interface(), append(parts, tv)...)
		default:
			_ = v.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "required_with":
		return fmt.Sprintf("This field requires the presence of %s", util.ToScreamingSnakeCase(fe.Param()))
	case "url":
		return "This field must be an absolute URL"
	case "oneof":
		return fmt.Sprintf("This field must be one of [%s]", fe.Param())
	case "file":
		return "This field must point to an existing file"
	case "gt", "gte":
		return fmt.Sprintf("This field must be %s %s", map[string]string{"gt": ">", "gte": ">="}[fe.Tag()], fe.Param())
	}
	return fe.Error() // default error
}

func load(v *viper.Viper, out interface{}) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// I hate this, but it works.
	// This is to not require a config file to unmarshal Envs in a struct
	// https://github.com/spf13/viper/issues/188#issuecomment-399884438
	bindEnvs(v, reflect.ValueOf(out).Elem().Interface())

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("error reading configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(out); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			var msgs []string
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s: %s", util.ToScreamingSnakeCase(fe.Field()), msgForTag(fe)))
			}
			return errors.New(strings.Join(msgs, ". "))
		}
		return fmt.Errorf("error validating configuration: %w", err)
	}

	return nil
}

// Load reads the client configuration from v: flags bound to it, then PWDMETER_* envs, then
// defaults.
func Load(v *viper.Viper) (config Config, err error) {
	SetDefaults(v)
	err = load(v, &config)
	return
}

// LoadServer reads the evaluator configuration from v.
func LoadServer(v *viper.Viper) (config ServerConfig, err error) {
	SetDefaults(v)
	err = load(v, &config)
	return
}
