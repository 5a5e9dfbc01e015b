// confgen собирает configs/values_local.yaml из базового конфига:
// поверх общих значений накатывается оверлей выбранной биржи
// (таймфреймы и тикеры у binance и mexc пишутся по-разному).
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"gopkg.in/yaml.v2"

	"github.com/spf13/viper"
)

const outputConfigName = "configs/values_local.yaml"

func buildConfig(base *viper.Viper, exchange string) (map[string]interface{}, error) {
	result := viper.New()
	if err := result.MergeConfigMap(base.AllSettings()); err != nil {
		return nil, errors.Wrap(err, "merge base settings")
	}
	if overlay := base.Sub("overlays." + exchange); overlay != nil {
		if err := result.MergeConfigMap(overlay.AllSettings()); err != nil {
			return nil, errors.Wrap(err, "merge exchange overlay")
		}
	}

	settings := result.AllSettings()
	delete(settings, "overlays")
	settings["exchange"] = exchange
	return settings, nil
}

func writeConfig(settings map[string]interface{}) error {
	bs, err := yaml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "marshal config to yaml")
	}
	_ = os.Remove(outputConfigName)
	temp, err := os.Create(outputConfigName)
	if err != nil {
		return errors.Wrap(err, "create values_local.yaml file")
	}
	if _, err = temp.Write(bs); err != nil {
		_ = os.Remove(temp.Name())
		return errors.Wrap(err, "write content")
	}
	return temp.Close()
}

func main() {
	viper.SetConfigName("values_base")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("configs")
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	exchange := viper.GetString("exchange")
	if len(os.Args) > 1 {
		exchange = os.Args[1]
	}
	if exchange == "" {
		panic("has no exchange in config or args")
	}

	settings, err := buildConfig(viper.GetViper(), exchange)
	if err != nil {
		panic(fmt.Errorf("can't build result config: %w", err))
	}
	if err := writeConfig(settings); err != nil {
		panic(fmt.Errorf("write config: %w", err))
	}
	fmt.Printf("%s complete (%s)\n", outputConfigName, exchange)
}
