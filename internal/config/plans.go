package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PlanLimits are the free-plan caps. Paid plans are unlimited.
type PlanLimits struct {
	FreeOfferLimit int `mapstructure:"freeOfferLimit"`
	FreeSeatLimit  int `mapstructure:"freeSeatLimit"`
}

func DefaultPlanLimits() PlanLimits {
	return PlanLimits{
		FreeOfferLimit: 3,
		FreeSeatLimit:  2,
	}
}

// PlanLimitsHolder serves the current limits and hot-reloads them when the
// plans config file changes, so cap adjustments do not need a restart.
type PlanLimitsHolder struct {
	current atomic.Value // holds PlanLimits
}

func NewPlanLimitsHolder() (*PlanLimitsHolder, error) {
	v := viper.New()

	v.SetConfigName("plans")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/offerdesk/config") // Volume-mounted config
	v.AddConfigPath("/etc/offerdesk")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("OFFERDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPlanLimits()
		v.SetDefault("plans.freeOfferLimit", defaults.FreeOfferLimit)
		v.SetDefault("plans.freeSeatLimit", defaults.FreeSeatLimit)
	}

	var limits PlanLimits
	if err := v.UnmarshalKey("plans", &limits); err != nil {
		return nil, err
	}
	if err := validatePlanLimits(limits); err != nil {
		return nil, err
	}

	holder := &PlanLimitsHolder{}
	holder.current.Store(limits)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PlanLimits
		if err := v.UnmarshalKey("plans", &updated); err != nil {
			log.Printf("[plans-config] reload failed: %v", err)
			return
		}
		if err := validatePlanLimits(updated); err != nil {
			log.Printf("[plans-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[plans-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// StaticPlanLimits returns a holder pinned to the given limits, without any
// file loading or watching.
func StaticPlanLimits(limits PlanLimits) *PlanLimitsHolder {
	holder := &PlanLimitsHolder{}
	holder.current.Store(limits)
	return holder
}

func (h *PlanLimitsHolder) Get() PlanLimits {
	return h.current.Load().(PlanLimits)
}

func validatePlanLimits(limits PlanLimits) error {
	if limits.FreeOfferLimit <= 0 {
		return errors.New("plans.freeOfferLimit must be positive")
	}
	if limits.FreeSeatLimit <= 0 {
		return errors.New("plans.freeSeatLimit must be positive")
	}
	return nil
}
