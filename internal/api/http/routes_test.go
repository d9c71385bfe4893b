package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/KaiRo-at/weatherthing/internal/thing"
)

func testApp() (*fiber.App, *thing.Thing) {
	app := fiber.New()

	sensorThing, _ := thing.NewTemperatureSensor("living room", "in", true)
	other, _ := thing.NewPressureSensor("outside", "baro")
	RegisterRoutes(app, []*thing.Thing{sensorThing, other})

	return app, sensorThing
}

func TestListThings(t *testing.T) {
	app, _ := testApp()

	req := httptest.NewRequest(http.MethodGet, "/things", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var things []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&things); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if len(things) != 2 {
		t.Fatalf("expected 2 things, got %d", len(things))
	}
	if things[0]["title"] != "Living Room Temperature Sensor" {
		t.Fatalf("unexpected first thing: %v", things[0]["title"])
	}
}

func TestGetUnknownThing(t *testing.T) {
	app, _ := testApp()

	req := httptest.NewRequest(http.MethodGet, "/things/nope", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}
}

func TestGetPropertyValueAndUnknown(t *testing.T) {
	app, sensorThing := testApp()
	sensorThing.Publish("temperature", 21.5)

	req := httptest.NewRequest(http.MethodGet, "/things/"+sensorThing.ID+"/properties/temperature", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var payload map[string]*float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if payload["temperature"] == nil || *payload["temperature"] != 21.5 {
		t.Fatalf("expected temperature 21.5, got %+v", payload)
	}

	// Humidity was never published, so it reads as null.
	req = httptest.NewRequest(http.MethodGet, "/things/"+sensorThing.ID+"/properties/humidity", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if v, present := payload["humidity"]; !present || v != nil {
		t.Fatalf("expected explicit null humidity, got %+v", payload)
	}
}

func TestGetUnknownProperty(t *testing.T) {
	app, sensorThing := testApp()

	req := httptest.NewRequest(http.MethodGet, "/things/"+sensorThing.ID+"/properties/voltage", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}
}

func TestGetAllProperties(t *testing.T) {
	app, sensorThing := testApp()
	sensorThing.Publish("temperature", 18.0)
	sensorThing.PublishUnknown("humidity")

	req := httptest.NewRequest(http.MethodGet, "/things/"+sensorThing.ID+"/properties", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload map[string]*float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if len(payload) != 2 {
		t.Fatalf("expected 2 properties, got %+v", payload)
	}
	if payload["temperature"] == nil || *payload["temperature"] != 18.0 {
		t.Fatalf("unexpected temperature: %+v", payload["temperature"])
	}
	if payload["humidity"] != nil {
		t.Fatalf("expected null humidity, got %v", *payload["humidity"])
	}
}
