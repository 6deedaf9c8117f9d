package config

// Logging destinations share the format/format_version/message_type contract
// but are distinct kinds with distinct remote endpoints.

const (
	defaultLogFormat       = `%{%Y-%m-%dT%H:%M:%S}t %h "%r" %>s %b`
	defaultTimestampFormat = "%Y-%m-%dT%H"
)

var messageTypeChoices = []string{"classic", "loggly", "logplex", "blank"}

// S3Logger streams access logs to an S3 bucket.
type S3Logger struct {
	Name                          string  `json:"name"`
	AccessKey                     *string `json:"access_key"`
	BucketName                    *string `json:"bucket_name"`
	Domain                        *string `json:"domain"`
	Format                        string  `json:"format"`
	FormatVersion                 int     `json:"format_version"`
	GzipLevel                     int     `json:"gzip_level"`
	MessageType                   string  `json:"message_type"`
	Path                          string  `json:"path"`
	Period                        int     `json:"period"`
	Placement                     *string `json:"placement"`
	Redundancy                    *string `json:"redundancy"`
	ResponseCondition             *string `json:"response_condition"`
	SecretKey                     *string `json:"secret_key"`
	ServerSideEncryptionKMSKeyID  *string `json:"server_side_encryption_kms_key_id"`
	ServerSideEncryption          *string `json:"server_side_encryption"`
	TimestampFormat               string  `json:"timestamp_format"`
}

var s3LoggerSchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "access_key", Type: TypeString},
	{Name: "bucket_name", Type: TypeString},
	{Name: "domain", Type: TypeString},
	{Name: "format", Type: TypeString, Default: defaultLogFormat},
	{Name: "format_version", Type: TypeInt, Default: 2},
	{Name: "gzip_level", Type: TypeInt, Default: 0},
	{Name: "message_type", Type: TypeString, Default: "classic", Choices: messageTypeChoices, AllowNil: true},
	{Name: "path", Type: TypeString, Default: "/"},
	{Name: "period", Type: TypeInt, Default: 3600},
	{Name: "placement", Type: TypeString},
	{Name: "redundancy", Type: TypeString},
	{Name: "response_condition", Type: TypeString, ExcludeEmptyStr: true},
	{Name: "secret_key", Type: TypeString},
	{Name: "server_side_encryption_kms_key_id", Type: TypeString},
	{Name: "server_side_encryption", Type: TypeString},
	{Name: "timestamp_format", Type: TypeString, Default: defaultTimestampFormat},
}

// NewS3Logger constructs an S3Logger from raw input.
func NewS3Logger(raw map[string]any, mode ValidateMode) (*S3Logger, error) {
	r := newFieldReader(KindS3Logger, s3LoggerSchema, raw, mode)
	l := &S3Logger{
		Name:                         r.str("name"),
		AccessKey:                    r.strp("access_key"),
		BucketName:                   r.strp("bucket_name"),
		Domain:                       r.strp("domain"),
		Format:                       r.str("format"),
		FormatVersion:                r.intval("format_version"),
		GzipLevel:                    r.intval("gzip_level"),
		MessageType:                  r.str("message_type"),
		Path:                         r.str("path"),
		Period:                       r.intval("period"),
		Placement:                    r.strp("placement"),
		Redundancy:                   r.strp("redundancy"),
		ResponseCondition:            r.strp("response_condition"),
		SecretKey:                    r.strp("secret_key"),
		ServerSideEncryptionKMSKeyID: r.strp("server_side_encryption_kms_key_id"),
		ServerSideEncryption:         r.strp("server_side_encryption"),
		TimestampFormat:              r.str("timestamp_format"),
	}
	return l, r.err
}

func (l *S3Logger) Kind() Kind                { return KindS3Logger }
func (l *S3Logger) ResourceName() string      { return l.Name }
func (l *S3Logger) Equal(other Resource) bool { return resourceEqual(l, other) }

// SyslogLogger streams access logs to a syslog endpoint.
type SyslogLogger struct {
	Name              string  `json:"name"`
	Hostname          *string `json:"hostname"`
	Port              int     `json:"port"`
	Address           *string `json:"address"`
	FormatVersion     int     `json:"format_version"`
	Format            string  `json:"format"`
	IPv4              *string `json:"ipv4,omitempty"`
	MessageType       string  `json:"message_type"`
	Placement         *string `json:"placement"`
	ResponseCondition *string `json:"response_condition"`
	TLSCACert         *string `json:"tls_ca_cert"`
	TLSHostname       *string `json:"tls_hostname"`
	Token             *string `json:"token"`
	UseTLS            int     `json:"use_tls"`
}

var syslogLoggerSchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "hostname", Type: TypeString},
	{Name: "port", Required: true, Type: TypeInt},
	// The required check runs before the empty-string rewrite, so an
	// address explicitly cleared to "" passes required and resolves nil.
	{Name: "address", Required: true, Type: TypeString, ExcludeEmptyStr: true},
	{Name: "format_version", Type: TypeInt, Default: 2},
	{Name: "format", Type: TypeString, Default: defaultLogFormat},
	// ipv4 is the one field dropped from payloads when unset; the
	// serialization tag on the struct field carries that.
	{Name: "ipv4", Type: TypeString, ExcludeEmptyStr: true},
	{Name: "message_type", Type: TypeString, Default: "classic", Choices: messageTypeChoices, AllowNil: true},
	{Name: "placement", Type: TypeString},
	{Name: "response_condition", Type: TypeString, ExcludeEmptyStr: true},
	{Name: "tls_ca_cert", Type: TypeString, ExcludeEmptyStr: true},
	{Name: "tls_hostname", Type: TypeString, ExcludeEmptyStr: true},
	{Name: "token", Type: TypeString},
	{Name: "use_tls", Type: TypeInt, Default: 0},
}

// NewSyslogLogger constructs a SyslogLogger from raw input. hostname
// defaults to the address when unset.
func NewSyslogLogger(raw map[string]any, mode ValidateMode) (*SyslogLogger, error) {
	r := newFieldReader(KindSyslogLogger, syslogLoggerSchema, raw, mode)
	l := &SyslogLogger{
		Name:              r.str("name"),
		Port:              r.intval("port"),
		Address:           r.strp("address"),
		FormatVersion:     r.intval("format_version"),
		Format:            r.str("format"),
		IPv4:              r.strp("ipv4"),
		MessageType:       r.str("message_type"),
		Placement:         r.strp("placement"),
		ResponseCondition: r.strp("response_condition"),
		TLSCACert:         r.strp("tls_ca_cert"),
		TLSHostname:       r.strp("tls_hostname"),
		Token:             r.strp("token"),
		UseTLS:            r.intval("use_tls"),
	}
	// An empty hostname counts as unset and falls back to the address.
	if host := r.strp("hostname"); host != nil && *host != "" {
		l.Hostname = host
	} else {
		l.Hostname = l.Address
	}
	return l, r.err
}

func (l *SyslogLogger) Kind() Kind                { return KindSyslogLogger }
func (l *SyslogLogger) ResourceName() string      { return l.Name }
func (l *SyslogLogger) Equal(other Resource) bool { return resourceEqual(l, other) }

// CloudFilesLogger streams access logs to a Rackspace Cloud Files container.
type CloudFilesLogger struct {
	Name              string  `json:"name"`
	AccessKey         *string `json:"access_key"`
	BucketName        *string `json:"bucket_name"`
	Format            string  `json:"format"`
	FormatVersion     int     `json:"format_version"`
	GzipLevel         int     `json:"gzip_level"`
	MessageType       string  `json:"message_type"`
	Path              string  `json:"path"`
	Period            int     `json:"period"`
	Placement         *string `json:"placement"`
	Region            *string `json:"region"`
	ResponseCondition *string `json:"response_condition"`
	TimestampFormat   string  `json:"timestamp_format"`
	User              string  `json:"user"`
}

var cloudFilesLoggerSchema = []FieldSpec{
	{Name: "name", Required: true, Type: TypeString},
	{Name: "access_key", Type: TypeString},
	{Name: "bucket_name", Type: TypeString},
	{Name: "format", Type: TypeString, Default: defaultLogFormat},
	{Name: "format_version", Type: TypeInt, Default: 2},
	{Name: "gzip_level", Type: TypeInt, Default: 0},
	{Name: "message_type", Type: TypeString, Default: "classic", Choices: messageTypeChoices, AllowNil: true},
	{Name: "path", Type: TypeString, Default: "/"},
	{Name: "period", Type: TypeInt, Default: 3600},
	{Name: "placement", Type: TypeString},
	{Name: "region", Type: TypeString, ExcludeEmptyStr: true},
	{Name: "response_condition", Type: TypeString, ExcludeEmptyStr: true},
	{Name: "timestamp_format", Type: TypeString, Default: defaultTimestampFormat},
	{Name: "user", Required: true, Type: TypeString},
}

// NewCloudFilesLogger constructs a CloudFilesLogger from raw input.
func NewCloudFilesLogger(raw map[string]any, mode ValidateMode) (*CloudFilesLogger, error) {
	r := newFieldReader(KindCloudFiles, cloudFilesLoggerSchema, raw, mode)
	l := &CloudFilesLogger{
		Name:              r.str("name"),
		AccessKey:         r.strp("access_key"),
		BucketName:        r.strp("bucket_name"),
		Format:            r.str("format"),
		FormatVersion:     r.intval("format_version"),
		GzipLevel:         r.intval("gzip_level"),
		MessageType:       r.str("message_type"),
		Path:              r.str("path"),
		Period:            r.intval("period"),
		Placement:         r.strp("placement"),
		Region:            r.strp("region"),
		ResponseCondition: r.strp("response_condition"),
		TimestampFormat:   r.str("timestamp_format"),
		User:              r.str("user"),
	}
	return l, r.err
}

func (l *CloudFilesLogger) Kind() Kind                { return KindCloudFiles }
func (l *CloudFilesLogger) ResourceName() string      { return l.Name }
func (l *CloudFilesLogger) Equal(other Resource) bool { return resourceEqual(l, other) }
