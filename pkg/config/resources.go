package config

// Each resource kind declares a compile-time schema table and a constructor
// that reads every declared field through the descriptor layer in a fixed
// order. The json tags match the wire names used by the remote API; nullable
// fields are pointers so a null survives serialization.

// Domain is a host name that serves as an entry point for a service.
type Domain struct {
	Name    string `json:"name"`
	Comment string `json:"comment"`
}

var domainSchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "comment", Type: TypeString, Default: ""},
}

// NewDomain constructs a Domain from raw input.
func NewDomain(raw map[string]any, mode ValidateMode) (*Domain, error) {
	r := newFieldReader(KindDomain, domainSchema, raw, mode)
	d := &Domain{
		Name:    r.str("name"),
		Comment: r.str("comment"),
	}
	return d, r.err
}

func (d *Domain) Kind() Kind                { return KindDomain }
func (d *Domain) ResourceName() string      { return d.Name }
func (d *Domain) Equal(other Resource) bool { return resourceEqual(d, other) }

// Healthcheck probes a backend host and gates traffic to it.
type Healthcheck struct {
	Name             string `json:"name"`
	CheckInterval    *int   `json:"check_interval"`
	Comment          string `json:"comment"`
	ExpectedResponse int    `json:"expected_response"`
	Host             string `json:"host"`
	HTTPVersion      string `json:"http_version"`
	Initial          *int   `json:"initial"`
	Method           string `json:"method"`
	Path             string `json:"path"`
	Threshold        *int   `json:"threshold"`
	Timeout          *int   `json:"timeout"`
	Window           *int   `json:"window"`
}

var healthcheckSchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "check_interval", Type: TypeInt},
	{Name: "comment", Type: TypeString, Default: ""},
	{Name: "expected_response", Type: TypeInt, Default: 200},
	{Name: "host", Required: true, Type: TypeString},
	{Name: "http_version", Type: TypeString, Default: "1.1"},
	{Name: "initial", Type: TypeInt},
	{Name: "method", Type: TypeString, Default: "HEAD"},
	{Name: "path", Type: TypeString, Default: "/"},
	{Name: "threshold", Type: TypeInt},
	{Name: "timeout", Type: TypeInt},
	{Name: "window", Type: TypeInt},
}

// NewHealthcheck constructs a Healthcheck from raw input.
func NewHealthcheck(raw map[string]any, mode ValidateMode) (*Healthcheck, error) {
	r := newFieldReader(KindHealthcheck, healthcheckSchema, raw, mode)
	h := &Healthcheck{
		Name:             r.str("name"),
		CheckInterval:    r.intp("check_interval"),
		Comment:          r.str("comment"),
		ExpectedResponse: r.intval("expected_response"),
		Host:             r.str("host"),
		HTTPVersion:      r.str("http_version"),
		Initial:          r.intp("initial"),
		Method:           r.str("method"),
		Path:             r.str("path"),
		Threshold:        r.intp("threshold"),
		Timeout:          r.intp("timeout"),
		Window:           r.intp("window"),
	}
	return h, r.err
}

func (h *Healthcheck) Kind() Kind                { return KindHealthcheck }
func (h *Healthcheck) ResourceName() string      { return h.Name }
func (h *Healthcheck) Equal(other Resource) bool { return resourceEqual(h, other) }

// Condition is a VCL predicate referenced by name from other resources.
type Condition struct {
	Name      string `json:"name"`
	Comment   string `json:"comment"`
	Priority  string `json:"priority"`
	Statement string `json:"statement"`
	Type      string `json:"type"`
}

var conditionSchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "comment", Type: TypeString, Default: ""},
	{Name: "priority", Type: TypeIntStr, Default: "0"},
	{Name: "statement", Required: true, Type: TypeString},
	{Name: "type", Required: true, Type: TypeString,
		Choices: []string{"REQUEST", "PREFETCH", "CACHE", "RESPONSE"}},
}

// NewCondition constructs a Condition from raw input.
func NewCondition(raw map[string]any, mode ValidateMode) (*Condition, error) {
	r := newFieldReader(KindCondition, conditionSchema, raw, mode)
	c := &Condition{
		Name:      r.str("name"),
		Comment:   r.str("comment"),
		Priority:  r.intstr("priority"),
		Statement: r.str("statement"),
		Type:      r.str("type"),
	}
	return c, r.err
}

func (c *Condition) Kind() Kind                { return KindCondition }
func (c *Condition) ResourceName() string      { return c.Name }
func (c *Condition) Equal(other Resource) bool { return resourceEqual(c, other) }

// Backend is an origin server requests are forwarded to.
type Backend struct {
	Name                string  `json:"name"`
	Port                int     `json:"port"`
	Address             string  `json:"address"`
	RequestCondition    string  `json:"request_condition"`
	SSLHostname         string  `json:"ssl_hostname"`
	SSLCACert           *string `json:"ssl_ca_cert"`
	SSLCertHostname     *string `json:"ssl_cert_hostname"`
	Shield              *string `json:"shield"`
	Healthcheck         *string `json:"healthcheck"`
	Weight              int     `json:"weight"`
	ConnectTimeout      int     `json:"connect_timeout"`
	FirstByteTimeout    int     `json:"first_byte_timeout"`
	BetweenBytesTimeout int     `json:"between_bytes_timeout"`
	ErrorThreshold      int     `json:"error_threshold"`
	MaxConn             int     `json:"max_conn"`
}

var backendSchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "port", Type: TypeInt, Default: 80},
	{Name: "address", Required: true, Type: TypeString},
	{Name: "request_condition", Type: TypeString, Default: ""},
	{Name: "ssl_hostname", Type: TypeString},
	{Name: "ssl_ca_cert", Type: TypeString, ExcludeEmptyStr: true},
	{Name: "ssl_cert_hostname", Type: TypeString, ExcludeEmptyStr: true},
	{Name: "shield", Type: TypeString, ExcludeEmptyStr: true},
	{Name: "healthcheck", Type: TypeString, ExcludeEmptyStr: true},
	{Name: "weight", Type: TypeInt, Default: 100},
	{Name: "connect_timeout", Type: TypeInt, Default: 1000},
	{Name: "first_byte_timeout", Type: TypeInt, Default: 15000},
	{Name: "between_bytes_timeout", Type: TypeInt, Default: 10000},
	{Name: "error_threshold", Type: TypeInt, Default: 0},
	{Name: "max_conn", Type: TypeInt, Default: 200},
}

// NewBackend constructs a Backend from raw input. ssl_hostname defaults to
// the backend address; the cross-field default is applied after both fields
// have been individually resolved.
func NewBackend(raw map[string]any, mode ValidateMode) (*Backend, error) {
	r := newFieldReader(KindBackend, backendSchema, raw, mode)
	b := &Backend{
		Name:                r.str("name"),
		Port:                r.intval("port"),
		Address:             r.str("address"),
		RequestCondition:    r.str("request_condition"),
		SSLCACert:           r.strp("ssl_ca_cert"),
		SSLCertHostname:     r.strp("ssl_cert_hostname"),
		Shield:              r.strp("shield"),
		Healthcheck:         r.strp("healthcheck"),
		Weight:              r.intval("weight"),
		ConnectTimeout:      r.intval("connect_timeout"),
		FirstByteTimeout:    r.intval("first_byte_timeout"),
		BetweenBytesTimeout: r.intval("between_bytes_timeout"),
		ErrorThreshold:      r.intval("error_threshold"),
		MaxConn:             r.intval("max_conn"),
	}
	if ssl := r.strp("ssl_hostname"); ssl != nil {
		b.SSLHostname = *ssl
	} else {
		b.SSLHostname = b.Address
	}
	return b, r.err
}

func (b *Backend) Kind() Kind                { return KindBackend }
func (b *Backend) ResourceName() string      { return b.Name }
func (b *Backend) Equal(other Resource) bool { return resourceEqual(b, other) }

// Director load-balances across a set of backends referenced by name.
type Director struct {
	Name     string   `json:"name"`
	Backends []string `json:"backends"`
	Capacity int      `json:"capacity"`
	Comment  string   `json:"comment"`
	Quorum   int      `json:"quorum"`
	Shield   *string  `json:"shield"`
	Type     int      `json:"type"`
	Retries  int      `json:"retries"`
}

var directorSchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "backends", Type: TypeList},
	{Name: "capacity", Type: TypeInt, Default: 100},
	{Name: "comment", Type: TypeString, Default: ""},
	{Name: "quorum", Type: TypeInt, Default: 75},
	{Name: "shield", Type: TypeString},
	{Name: "type", Type: TypeInt, Default: 1},
	{Name: "retries", Type: TypeInt, Default: 5},
}

// NewDirector constructs a Director from raw input.
func NewDirector(raw map[string]any, mode ValidateMode) (*Director, error) {
	r := newFieldReader(KindDirector, directorSchema, raw, mode)
	d := &Director{
		Name:     r.str("name"),
		Backends: r.list("backends"),
		Capacity: r.intval("capacity"),
		Comment:  r.str("comment"),
		Quorum:   r.intval("quorum"),
		Shield:   r.strp("shield"),
		Type:     r.intval("type"),
		Retries:  r.intval("retries"),
	}
	return d, r.err
}

func (d *Director) Kind() Kind                { return KindDirector }
func (d *Director) ResourceName() string      { return d.Name }
func (d *Director) Equal(other Resource) bool { return resourceEqual(d, other) }

// CacheSettings overrides caching behaviour, optionally gated by a cache
// condition.
type CacheSettings struct {
	Name           string  `json:"name"`
	Action         *string `json:"action"`
	CacheCondition string  `json:"cache_condition"`
	StaleTTL       int     `json:"stale_ttl"`
}

var cacheSettingsSchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "action", Type: TypeString, Choices: []string{"cache", "pass", "restart"}, AllowNil: true},
	{Name: "cache_condition", Type: TypeString, Default: ""},
	{Name: "stale_ttl", Type: TypeInt, Default: 0},
}

// NewCacheSettings constructs a CacheSettings from raw input.
func NewCacheSettings(raw map[string]any, mode ValidateMode) (*CacheSettings, error) {
	r := newFieldReader(KindCacheSettings, cacheSettingsSchema, raw, mode)
	c := &CacheSettings{
		Name:           r.str("name"),
		Action:         r.strp("action"),
		CacheCondition: r.str("cache_condition"),
		StaleTTL:       r.intval("stale_ttl"),
	}
	return c, r.err
}

func (c *CacheSettings) Kind() Kind                { return KindCacheSettings }
func (c *CacheSettings) ResourceName() string      { return c.Name }
func (c *CacheSettings) Equal(other Resource) bool { return resourceEqual(c, other) }

// Gzip enables compression for matching content types and extensions.
type Gzip struct {
	Name           string `json:"name"`
	CacheCondition string `json:"cache_condition"`
	ContentTypes   string `json:"content_types"`
	Extensions     string `json:"extensions"`
}

var gzipSchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "cache_condition", Type: TypeString, Default: ""},
	{Name: "content_types", Type: TypeString, Default: ""},
	{Name: "extensions", Type: TypeString, Default: ""},
}

// NewGzip constructs a Gzip from raw input.
func NewGzip(raw map[string]any, mode ValidateMode) (*Gzip, error) {
	r := newFieldReader(KindGzip, gzipSchema, raw, mode)
	g := &Gzip{
		Name:           r.str("name"),
		CacheCondition: r.str("cache_condition"),
		ContentTypes:   r.str("content_types"),
		Extensions:     r.str("extensions"),
	}
	return g, r.err
}

func (g *Gzip) Kind() Kind                { return KindGzip }
func (g *Gzip) ResourceName() string      { return g.Name }
func (g *Gzip) Equal(other Resource) bool { return resourceEqual(g, other) }

// Header manipulates a request or response header.
type Header struct {
	Name              string  `json:"name"`
	Action            string  `json:"action"`
	Dst               string  `json:"dst"`
	IgnoreIfSet       string  `json:"ignore_if_set"`
	Priority          string  `json:"priority"`
	Regex             string  `json:"regex"`
	RequestCondition  *string `json:"request_condition"`
	ResponseCondition *string `json:"response_condition"`
	CacheCondition    *string `json:"cache_condition"`
	Src               string  `json:"src"`
	Substitution      string  `json:"substitution"`
	Type              string  `json:"type"`
}

var headerSchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "action", Type: TypeString, Default: "set",
		Choices: []string{"set", "append", "delete", "regex", "regex_repeat"}},
	{Name: "dst", Required: true, Type: TypeString},
	{Name: "ignore_if_set", Type: TypeIntStr, Default: "0"},
	{Name: "priority", Type: TypeIntStr, Default: "100"},
	{Name: "regex", Type: TypeString, Default: ""},
	{Name: "request_condition", Type: TypeString},
	{Name: "response_condition", Type: TypeString},
	{Name: "cache_condition", Type: TypeString},
	{Name: "src", Required: true, Type: TypeString},
	{Name: "substitution", Type: TypeString, Default: ""},
	{Name: "type", Required: true, Type: TypeString,
		Choices: []string{"request", "fetch", "cache", "response"}},
}

// NewHeader constructs a Header from raw input.
func NewHeader(raw map[string]any, mode ValidateMode) (*Header, error) {
	r := newFieldReader(KindHeader, headerSchema, raw, mode)
	h := &Header{
		Name:              r.str("name"),
		Action:            r.str("action"),
		Dst:               r.str("dst"),
		IgnoreIfSet:       r.intstr("ignore_if_set"),
		Priority:          r.intstr("priority"),
		Regex:             r.str("regex"),
		RequestCondition:  r.strp("request_condition"),
		ResponseCondition: r.strp("response_condition"),
		CacheCondition:    r.strp("cache_condition"),
		Src:               r.str("src"),
		Substitution:      r.str("substitution"),
		Type:              r.str("type"),
	}
	return h, r.err
}

func (h *Header) Kind() Kind                { return KindHeader }
func (h *Header) ResourceName() string      { return h.Name }
func (h *Header) Equal(other Resource) bool { return resourceEqual(h, other) }

// RequestSetting customizes request handling, optionally gated by a request
// condition.
type RequestSetting struct {
	Name             string  `json:"name"`
	RequestCondition string  `json:"request_condition"`
	ForceMiss        int     `json:"force_miss"`
	ForceSSL         int     `json:"force_ssl"`
	Action           *string `json:"action"`
	BypassBusyWait   int     `json:"bypass_busy_wait"`
	MaxStaleAge      int     `json:"max_stale_age"`
	HashKeys         string  `json:"hash_keys"`
	XFF              *string `json:"xff"`
	TimerSupport     int     `json:"timer_support"`
	GeoHeaders       int     `json:"geo_headers"`
	DefaultHost      string  `json:"default_host"`
}

var requestSettingSchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "request_condition", Type: TypeString, Default: ""},
	{Name: "force_miss", Type: TypeInt, Default: 0},
	{Name: "force_ssl", Type: TypeInt, Default: 0},
	{Name: "action", Type: TypeString, Choices: []string{"lookup", "pass"}, AllowNil: true},
	{Name: "bypass_busy_wait", Type: TypeInt, Default: 0},
	{Name: "max_stale_age", Type: TypeInt, Default: 0},
	{Name: "hash_keys", Type: TypeString, Default: ""},
	{Name: "xff", Type: TypeString,
		Choices: []string{"clear", "leave", "append", "append_all", "overwrite"}, AllowNil: true},
	{Name: "timer_support", Type: TypeInt, Default: 0},
	{Name: "geo_headers", Type: TypeInt, Default: 0},
	{Name: "default_host", Type: TypeString, Default: ""},
}

// NewRequestSetting constructs a RequestSetting from raw input.
func NewRequestSetting(raw map[string]any, mode ValidateMode) (*RequestSetting, error) {
	r := newFieldReader(KindRequestSetting, requestSettingSchema, raw, mode)
	s := &RequestSetting{
		Name:             r.str("name"),
		RequestCondition: r.str("request_condition"),
		ForceMiss:        r.intval("force_miss"),
		ForceSSL:         r.intval("force_ssl"),
		Action:           r.strp("action"),
		BypassBusyWait:   r.intval("bypass_busy_wait"),
		MaxStaleAge:      r.intval("max_stale_age"),
		HashKeys:         r.str("hash_keys"),
		XFF:              r.strp("xff"),
		TimerSupport:     r.intval("timer_support"),
		GeoHeaders:       r.intval("geo_headers"),
		DefaultHost:      r.str("default_host"),
	}
	return s, r.err
}

func (s *RequestSetting) Kind() Kind                { return KindRequestSetting }
func (s *RequestSetting) ResourceName() string      { return s.Name }
func (s *RequestSetting) Equal(other Resource) bool { return resourceEqual(s, other) }

// ResponseObject serves a synthetic response, optionally gated by a request
// condition.
type ResponseObject struct {
	Name             string `json:"name"`
	RequestCondition string `json:"request_condition"`
	Response         string `json:"response"`
	Status           string `json:"status"`
	Content          string `json:"content"`
	ContentType      string `json:"content_type"`
}

var responseObjectSchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "request_condition", Type: TypeString, Default: ""},
	{Name: "response", Type: TypeString, Default: "Ok"},
	{Name: "status", Type: TypeIntStr, Default: "200"},
	{Name: "content", Type: TypeString, Default: ""},
	{Name: "content_type", Type: TypeString, Default: ""},
}

// NewResponseObject constructs a ResponseObject from raw input.
func NewResponseObject(raw map[string]any, mode ValidateMode) (*ResponseObject, error) {
	r := newFieldReader(KindResponseObject, responseObjectSchema, raw, mode)
	o := &ResponseObject{
		Name:             r.str("name"),
		RequestCondition: r.str("request_condition"),
		Response:         r.str("response"),
		Status:           r.intstr("status"),
		Content:          r.str("content"),
		ContentType:      r.str("content_type"),
	}
	return o, r.err
}

func (o *ResponseObject) Kind() Kind                { return KindResponseObject }
func (o *ResponseObject) ResourceName() string      { return o.Name }
func (o *ResponseObject) Equal(other Resource) bool { return resourceEqual(o, other) }

// VclSnippet is a fragment of VCL injected into a generated subroutine.
type VclSnippet struct {
	Name     string `json:"name"`
	Dynamic  int    `json:"dynamic"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Priority int    `json:"priority"`
}

var vclSnippetSchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "dynamic", Type: TypeInt, Default: 0},
	{Name: "type", Type: TypeString, Default: "init"},
	{Name: "content", Required: true, Type: TypeString},
	{Name: "priority", Type: TypeInt, Default: 100},
}

// NewVclSnippet constructs a VclSnippet from raw input.
func NewVclSnippet(raw map[string]any, mode ValidateMode) (*VclSnippet, error) {
	r := newFieldReader(KindVclSnippet, vclSnippetSchema, raw, mode)
	s := &VclSnippet{
		Name:     r.str("name"),
		Dynamic:  r.intval("dynamic"),
		Type:     r.str("type"),
		Content:  r.str("content"),
		Priority: r.intval("priority"),
	}
	return s, r.err
}

func (s *VclSnippet) Kind() Kind                { return KindVclSnippet }
func (s *VclSnippet) ResourceName() string      { return s.Name }
func (s *VclSnippet) Equal(other Resource) bool { return resourceEqual(s, other) }

// Vcl is a complete custom VCL file uploaded to a version.
type Vcl struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Main    bool   `json:"main"`
}

var vclSchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "content", Required: true, Type: TypeString},
	{Name: "main", Type: TypeBool, Default: false},
}

// NewVcl constructs a Vcl from raw input.
func NewVcl(raw map[string]any, mode ValidateMode) (*Vcl, error) {
	r := newFieldReader(KindVcl, vclSchema, raw, mode)
	v := &Vcl{
		Name:    r.str("name"),
		Content: r.str("content"),
		Main:    r.boolean("main"),
	}
	return v, r.err
}

func (v *Vcl) Kind() Kind                { return KindVcl }
func (v *Vcl) ResourceName() string      { return v.Name }
func (v *Vcl) Equal(other Resource) bool { return resourceEqual(v, other) }

// Dictionary is a named edge key/value table.
type Dictionary struct {
	Name      string `json:"name"`
	WriteOnly bool   `json:"write_only"`
}

var dictionarySchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "write_only", Type: TypeBool, Default: false},
}

// NewDictionary constructs a Dictionary from raw input.
func NewDictionary(raw map[string]any, mode ValidateMode) (*Dictionary, error) {
	r := newFieldReader(KindDictionary, dictionarySchema, raw, mode)
	d := &Dictionary{
		Name:      r.str("name"),
		WriteOnly: r.boolean("write_only"),
	}
	return d, r.err
}

func (d *Dictionary) Kind() Kind                { return KindDictionary }
func (d *Dictionary) ResourceName() string      { return d.Name }
func (d *Dictionary) Equal(other Resource) bool { return resourceEqual(d, other) }

// Settings is the per-version singleton of service-wide defaults. Unlike the
// named kinds it is always applied with an update, never deleted.
type Settings struct {
	DefaultTTL int `json:"general.default_ttl"`
}

var settingsSchema = []FieldSpec{
	{Name: "general.default_ttl", Type: TypeInt, Default: 3600},
}

// NewSettings constructs the Settings singleton from raw input. A nil map
// yields the defaults.
func NewSettings(raw map[string]any, mode ValidateMode) (*Settings, error) {
	r := newFieldReader(KindSettings, settingsSchema, raw, mode)
	s := &Settings{
		DefaultTTL: r.intval("general.default_ttl"),
	}
	return s, r.err
}

// Equal reports field equality with another settings singleton.
func (s *Settings) Equal(other *Settings) bool {
	if s == nil || other == nil {
		return s == other
	}
	return *s == *other
}
