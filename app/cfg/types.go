package cfg

import (
	"time"
)

type Command string

const (
	CommandGenerate   Command = "generate"
	CommandServe      Command = "serve"
	CommandRefs       Command = "refs"
	CommandDuplicates Command = "duplicates"
)

type Cfg struct {
	Command Command

	// Generation
	BaseUrl        string   `validate:"required_if=Command generate,required_if=Command serve,omitempty,url"`
	OutputDir      string   `validate:"required"`
	IndexFile      string   `validate:"required"`
	MaxURLsPerFile int      `validate:"gt=0,lte=50000"`
	Languages      []string `validate:"min=1,unique,dive,len=2,lowercase,alpha"`
	CatalogConfig  string   `validate:"required"`
	Alternates     bool

	// Catalog API
	PageSize       int     `validate:"gt=0"`
	RateLimit      float64 `validate:"gte=0"`
	RequestTimeout time.Duration
	UserAgent      string

	// Run history
	DBPath string

	// Server
	Port             string
	APIAccessKey     string
	ScheduleInterval time.Duration `validate:"gte=0"`

	// refs command
	RefsHTML     string
	RefsSelector string
	RefsOutput   string

	// duplicates command
	DuplicatesCategory string

	// Application metadata
	Timezone string
	Location *time.Location
	LogFile  string
	Debug    bool
	Version  string
}
