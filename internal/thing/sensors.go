package thing

import (
	"fmt"

	"github.com/KaiRo-at/weatherthing/internal/common"
	"github.com/KaiRo-at/weatherthing/internal/sensor"
)

func ptr(v float64) *float64 { return &v }

func humidityMetadata(location string) PropertyMetadata {
	return PropertyMetadata{
		AtType:      "LevelProperty",
		Title:       fmt.Sprintf("%s Humidity", common.Title(location)),
		Type:        "number",
		Description: fmt.Sprintf("The current %s humidity in %%", location),
		Minimum:     ptr(0),
		Maximum:     ptr(100),
		Unit:        "percent",
		ReadOnly:    true,
	}
}

// NewHumiditySensor builds a humidity thing reading "<prefix>_hygro".
func NewHumiditySensor(location, prefix string) (*Thing, sensor.Spec) {
	t := New(
		fmt.Sprintf("%s Humidity Sensor", common.Title(location)),
		[]string{"MultiLevelSensor"},
		fmt.Sprintf("The humidity sensor in %s", location),
	)
	t.AddProperty("level", humidityMetadata(location))

	return t, sensor.Spec{
		Location: location,
		Fields: []sensor.Field{
			{Property: "level", SourceKey: prefix + "_hygro"},
		},
	}
}

// NewTemperatureSensor builds a temperature thing reading
// "<prefix>_temp", optionally with a humidity property fed from
// "<prefix>_hygro".
func NewTemperatureSensor(location, prefix string, hasHumidity bool) (*Thing, sensor.Spec) {
	t := New(
		fmt.Sprintf("%s Temperature Sensor", common.Title(location)),
		[]string{"TemperatureSensor"},
		fmt.Sprintf("The temperature sensor in %s", location),
	)
	t.AddProperty("temperature", PropertyMetadata{
		AtType:      "TemperatureProperty",
		Title:       fmt.Sprintf("%s Temperature", common.Title(location)),
		Type:        "number",
		Description: fmt.Sprintf("The current %s temperature in °C", location),
		Unit:        "degree celsius",
		ReadOnly:    true,
	})

	spec := sensor.Spec{
		Location: location,
		Fields: []sensor.Field{
			{Property: "temperature", SourceKey: prefix + "_temp"},
		},
	}

	if hasHumidity {
		t.AddProperty("humidity", humidityMetadata(location))
		spec.Fields = append(spec.Fields, sensor.Field{
			Property: "humidity", SourceKey: prefix + "_hygro",
		})
	}

	return t, spec
}

// NewPressureSensor builds a barometer thing reading the named station
// field directly (no prefix convention, the station calls it "baro").
func NewPressureSensor(location, sourceKey string) (*Thing, sensor.Spec) {
	t := New(
		fmt.Sprintf("%s Barometer", common.Title(location)),
		[]string{"MultiLevelSensor"},
		fmt.Sprintf("The barometer (air pressure sensor) in %s", location),
	)
	t.AddProperty("level", PropertyMetadata{
		AtType:      "LevelProperty",
		Title:       fmt.Sprintf("%s Air Pressure", common.Title(location)),
		Type:        "number",
		Description: fmt.Sprintf("The current %s air pressure in hPa/mbar", location),
		Minimum:     ptr(0),
		Maximum:     ptr(10000),
		Unit:        "hPa",
		ReadOnly:    true,
	})

	return t, sensor.Spec{
		Location: location,
		Fields: []sensor.Field{
			{Property: "level", SourceKey: sourceKey},
		},
	}
}
