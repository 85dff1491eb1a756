package ingest

import (
	"fmt"
	"sort"
	"strings"

	"casque-hud/internal/telemetry"
)

// CombinedTopic carries a JSON object keyed by snapshot field names.
const CombinedTopic = "hud/telemetry"

// Route binds one bus topic to one snapshot field. An empty Key marks a
// combined topic whose payload is a whole JSON object.
type Route struct {
	Topic string
	Key   string
}

// DefaultRoutes is the topic table published by the helmet, backpack and
// energy boards.
func DefaultRoutes() []Route {
	return []Route{
		{Topic: "helmet/orientation", Key: telemetry.KeyOrientation},
		{Topic: "energy/battery/level", Key: telemetry.KeyBatteryLevel},
		{Topic: "helmet/right/temp", Key: telemetry.KeyCasqueTemp},
		{Topic: "helmet/right/humidity", Key: telemetry.KeyCasqueHumidity},
		{Topic: "backpack/temp/exterior", Key: telemetry.KeyTempExt},
		{Topic: "backpack/humidity/exterior", Key: telemetry.KeyHumidityExt},
		{Topic: "backpack/temp/interior", Key: telemetry.KeyBackpackTemp},
		{Topic: "backpack/humidity/interior", Key: telemetry.KeyBackpackHumidity},
		{Topic: "backpack/gas/smoke/exterior", Key: telemetry.KeyAirQualityExt},
		{Topic: "helmet/air_quality", Key: telemetry.KeyAirQualityInt},
		{Topic: "hud/target", Key: telemetry.KeyTargetFound},
		{Topic: CombinedTopic},
	}
}

// Router applies bus messages to a telemetry store.
type Router struct {
	routes map[string]string
}

// NewRouter builds a router for routes. Each topic is joined under prefix
// ("casque" turns "helmet/orientation" into "casque/helmet/orientation").
func NewRouter(prefix string, routes []Route) *Router {
	r := &Router{routes: make(map[string]string, len(routes))}
	prefix = strings.Trim(prefix, "/")
	for _, route := range routes {
		topic := route.Topic
		if prefix != "" {
			topic = prefix + "/" + topic
		}
		r.routes[topic] = route.Key
	}
	return r
}

// Topics returns every routed topic in sorted order.
func (r *Router) Topics() []string {
	out := make([]string, 0, len(r.routes))
	for t := range r.routes {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Handle decodes payload for topic and applies it to store. Unknown topics
// and malformed payloads leave the store untouched.
func (r *Router) Handle(store *telemetry.Store, topic string, payload []byte) error {
	key, ok := r.routes[topic]
	if !ok {
		return fmt.Errorf("ingest: unrouted topic %q", topic)
	}
	return store.Update(func(s *telemetry.Snapshot) error {
		if key == "" {
			return telemetry.ApplyJSON(s, payload)
		}
		return telemetry.SetField(s, key, payload)
	})
}

// Subject converts a slash-separated topic to a dot-separated NATS subject.
func Subject(topic string) string {
	return strings.ReplaceAll(topic, "/", ".")
}
