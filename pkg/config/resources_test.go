package config

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewBackend_Defaults(t *testing.T) {
	b, err := NewBackend(map[string]any{
		"name":    "origin",
		"address": "origin.example.net",
	}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if b.Port != 80 {
		t.Errorf("Expected default port 80, got %d", b.Port)
	}
	if b.Weight != 100 {
		t.Errorf("Expected default weight 100, got %d", b.Weight)
	}
	if b.ConnectTimeout != 1000 {
		t.Errorf("Expected default connect_timeout 1000, got %d", b.ConnectTimeout)
	}
	if b.SSLHostname != "origin.example.net" {
		t.Errorf("Expected ssl_hostname to default to address, got %q", b.SSLHostname)
	}
}

func TestNewBackend_ExplicitSSLHostname(t *testing.T) {
	b, err := NewBackend(map[string]any{
		"name":         "origin",
		"address":      "10.0.0.1",
		"ssl_hostname": "origin.example.net",
	}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if b.SSLHostname != "origin.example.net" {
		t.Errorf("Expected explicit ssl_hostname to win, got %q", b.SSLHostname)
	}
}

func TestNewBackend_EmptyOptionalStringsDropped(t *testing.T) {
	b, err := NewBackend(map[string]any{
		"name":        "origin",
		"address":     "origin.example.net",
		"shield":      "",
		"healthcheck": "",
	}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if b.Shield != nil {
		t.Errorf("Expected empty shield to resolve to nil, got %q", *b.Shield)
	}
	if b.Healthcheck != nil {
		t.Errorf("Expected empty healthcheck to resolve to nil, got %q", *b.Healthcheck)
	}
}

func TestNewHeader_MissingRequiredType(t *testing.T) {
	_, err := NewHeader(map[string]any{
		"name": "add-host",
		"dst":  "http.Host",
		"src":  `"example.net"`,
	}, Strict)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got: %v", err)
	}
	if verr.Kind != KindHeader || verr.Field != "type" {
		t.Errorf("Expected header/type failure, got %s/%s", verr.Kind, verr.Field)
	}
}

func TestNewHeader_Defaults(t *testing.T) {
	h, err := NewHeader(map[string]any{
		"name": "add-host",
		"dst":  "http.Host",
		"src":  `"example.net"`,
		"type": "request",
	}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if h.Action != "set" {
		t.Errorf("Expected default action %q, got %q", "set", h.Action)
	}
	if h.Priority != "100" {
		t.Errorf("Expected default priority %q, got %q", "100", h.Priority)
	}
	if h.IgnoreIfSet != "0" {
		t.Errorf("Expected default ignore_if_set %q, got %q", "0", h.IgnoreIfSet)
	}
}

func TestNewCondition_InvalidType(t *testing.T) {
	_, err := NewCondition(map[string]any{
		"name":      "on-purge",
		"statement": `req.request == "PURGE"`,
		"type":      "purge",
	}, Strict)
	if err == nil {
		t.Fatal("Expected error for type outside the choice set")
	}
}

func TestNewCondition_LenientAcceptsUnknownType(t *testing.T) {
	c, err := NewCondition(map[string]any{
		"name":      "legacy",
		"statement": "true",
		"type":      "FETCH",
	}, Lenient)
	if err != nil {
		t.Fatalf("Expected no error in lenient mode, got: %v", err)
	}
	if c.Type != "FETCH" {
		t.Errorf("Expected remote value to survive, got %q", c.Type)
	}
}

func TestNewResponseObject_NumericStatus(t *testing.T) {
	o, err := NewResponseObject(map[string]any{
		"name":   "redirect",
		"status": 302,
	}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if o.Status != "302" {
		t.Errorf("Expected status %q, got %q", "302", o.Status)
	}
	if o.Response != "Ok" {
		t.Errorf("Expected default response %q, got %q", "Ok", o.Response)
	}
}

func TestNewSyslogLogger_HostnameDefaultsToAddress(t *testing.T) {
	l, err := NewSyslogLogger(map[string]any{
		"name":    "central",
		"port":    514,
		"address": "syslog.example.net",
	}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if l.Hostname == nil || *l.Hostname != "syslog.example.net" {
		t.Errorf("Expected hostname to default to address, got %v", l.Hostname)
	}
}

func TestNewSyslogLogger_EmptyAddressPassesRequiredCheck(t *testing.T) {
	l, err := NewSyslogLogger(map[string]any{
		"name":    "central",
		"port":    514,
		"address": "",
	}, Strict)
	if err != nil {
		t.Fatalf("Expected no error for explicitly empty address, got: %v", err)
	}
	if l.Address != nil {
		t.Errorf("Expected address to resolve to nil, got %q", *l.Address)
	}
}

func TestNewSyslogLogger_EmptyHostnameFallsBackToAddress(t *testing.T) {
	l, err := NewSyslogLogger(map[string]any{
		"name":     "central",
		"port":     514,
		"address":  "syslog.example.net",
		"hostname": "",
	}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if l.Hostname == nil || *l.Hostname != "syslog.example.net" {
		t.Errorf("Expected empty hostname to fall back to address, got %v", l.Hostname)
	}
}

func TestSyslogLogger_SerializationOmitsUnsetIPv4(t *testing.T) {
	l, err := NewSyslogLogger(map[string]any{
		"name":    "central",
		"port":    514,
		"address": "syslog.example.net",
	}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if _, present := payload["ipv4"]; present {
		t.Error("Expected unset ipv4 to be dropped from the payload")
	}
	// Other nullable fields keep their explicit null.
	if v, present := payload["placement"]; !present || v != nil {
		t.Errorf("Expected placement to serialize as null, got %v (present=%v)", v, present)
	}

	withIPv4, _ := NewSyslogLogger(map[string]any{
		"name":    "central",
		"port":    514,
		"address": "syslog.example.net",
		"ipv4":    "203.0.113.10",
	}, Strict)
	data, err = json.Marshal(withIPv4)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	payload = map[string]any{}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if payload["ipv4"] != "203.0.113.10" {
		t.Errorf("Expected set ipv4 to be serialized, got %v", payload["ipv4"])
	}
}

func TestNewSyslogLogger_MissingAddressRejected(t *testing.T) {
	_, err := NewSyslogLogger(map[string]any{"name": "central", "port": 514}, Strict)
	if err == nil {
		t.Fatal("Expected error for missing address")
	}
}

func TestNewS3Logger_Defaults(t *testing.T) {
	l, err := NewS3Logger(map[string]any{"name": "archive"}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if l.Format != defaultLogFormat {
		t.Errorf("Expected default log format, got %q", l.Format)
	}
	if l.Period != 3600 {
		t.Errorf("Expected default period 3600, got %d", l.Period)
	}
	if l.MessageType != "classic" {
		t.Errorf("Expected default message_type %q, got %q", "classic", l.MessageType)
	}
}

func TestNewSettings_NilMapYieldsDefaults(t *testing.T) {
	s, err := NewSettings(nil, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if s.DefaultTTL != 3600 {
		t.Errorf("Expected default TTL 3600, got %d", s.DefaultTTL)
	}
}

func TestResource_EqualIgnoresIdentity(t *testing.T) {
	a, err := NewDomain(map[string]any{"name": "www.example.net"}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	b, err := NewDomain(map[string]any{"name": "www.example.net", "comment": ""}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !a.Equal(b) {
		t.Error("Expected domains with identical resolved fields to be equal")
	}

	c, _ := NewDomain(map[string]any{"name": "www.example.net", "comment": "edge"}, Strict)
	if a.Equal(c) {
		t.Error("Expected differing comments to break equality")
	}
}

func TestResource_EqualDifferentKinds(t *testing.T) {
	d, _ := NewDomain(map[string]any{"name": "shared"}, Strict)
	g, _ := NewGzip(map[string]any{"name": "shared"}, Strict)
	if d.Equal(g) {
		t.Error("Expected resources of different kinds to never be equal")
	}
}
