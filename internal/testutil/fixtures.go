package testutil

import (
	"testing"

	"github.com/relaydev/ioc"
)

// Logger, Database and Cache are the small interfaces most fixture services
// depend on, standing in for the kind of cross-cutting dependencies a real
// application wires through its container.
type Logger interface{ Log(msg string) }
type Database interface{ Query(q string) string }
type Cache interface{ Get(key string) (string, bool) }

type ConsoleLogger struct{ Lines []string }

func NewConsoleLogger() *ConsoleLogger { return &ConsoleLogger{} }
func (l *ConsoleLogger) Log(msg string) { l.Lines = append(l.Lines, msg) }

type MemoryDatabase struct{}

func NewMemoryDatabase() *MemoryDatabase         { return &MemoryDatabase{} }
func (d *MemoryDatabase) Query(q string) string { return "result:" + q }

type MemoryCache struct{ data map[string]string }

func NewMemoryCache() *MemoryCache { return &MemoryCache{data: map[string]string{}} }
func (c *MemoryCache) Get(key string) (string, bool) {
	v, ok := c.data[key]
	return v, ok
}

// ReportingService depends on all three fixture interfaces, exercising
// multi-parameter autowiring in scenario tests.
type ReportingService struct {
	Logger   Logger
	Database Database
	Cache    Cache
}

func NewReportingService(l Logger, d Database, c Cache) *ReportingService {
	return &ReportingService{Logger: l, Database: d, Cache: c}
}

// TestScenario bundles a container-building step with a validation step.
type TestScenario struct {
	Name     string
	Setup    func(t *testing.T) *ioc.Container
	Validate func(t *testing.T, c *ioc.Container)
}

// RunTestScenarios executes each scenario as its own subtest.
func RunTestScenarios(t *testing.T, scenarios []TestScenario) {
	t.Helper()
	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			c := sc.Setup(t)
			sc.Validate(t, c)
		})
	}
}

// ErrorTestCase bundles a container-building step, an action expected to
// fail, and an assertion over the resulting error.
type ErrorTestCase struct {
	Name     string
	Setup    func(t *testing.T) *ioc.Container
	Action   func(c *ioc.Container) error
	CheckErr func(t *testing.T, err error)
}

// RunErrorTestCases executes each error case as its own subtest.
func RunErrorTestCases(t *testing.T, cases []ErrorTestCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			c := tc.Setup(t)
			err := tc.Action(c)
			RequireError(t, err)
			if tc.CheckErr != nil {
				tc.CheckErr(t, err)
			}
		})
	}
}
