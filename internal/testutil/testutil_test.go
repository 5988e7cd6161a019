package testutil_test

import (
	"reflect"
	"testing"

	"github.com/relaydev/ioc"
	"github.com/relaydev/ioc/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestContainerBuilderWiresReportingService(t *testing.T) {
	b := testutil.NewContainerBuilder(t, ioc.ContainerConfig{})
	b.WithInstance(ioc.TypeID(reflect.TypeOf((*testutil.Logger)(nil)).Elem()), testutil.NewConsoleLogger())
	b.WithInstance(ioc.TypeID(reflect.TypeOf((*testutil.Database)(nil)).Elem()), testutil.NewMemoryDatabase())
	b.WithInstance(ioc.TypeID(reflect.TypeOf((*testutil.Cache)(nil)).Elem()), testutil.NewMemoryCache())
	b.WithSingleton(reflect.TypeOf(&testutil.ReportingService{}), testutil.NewReportingService)

	c := b.Seal()
	v := testutil.AssertResolvable(t, c, ioc.TypeID(reflect.TypeOf(&testutil.ReportingService{})))
	svc, ok := v.(*testutil.ReportingService)
	require.True(t, ok)
	require.NotNil(t, svc.Logger)
	require.NotNil(t, svc.Database)
	require.NotNil(t, svc.Cache)
}

func TestContainerBuilderCircularDependency(t *testing.T) {
	b := testutil.NewContainerBuilder(t, ioc.ContainerConfig{})
	b.WithSingleton(reflect.TypeOf(&testutil.CircularA{}), testutil.NewCircularA)
	b.WithSingleton(reflect.TypeOf(&testutil.CircularB{}), testutil.NewCircularB)
	c := b.Seal()

	_, err := c.Get(ioc.TypeID(reflect.TypeOf(&testutil.CircularA{})))
	testutil.AssertCircularDependency(t, err)
}

func TestContainerBuilderScopedDisposableTerminates(t *testing.T) {
	b := testutil.NewContainerBuilder(t, ioc.ContainerConfig{})
	b.WithScoped(reflect.TypeOf(&testutil.Disposable{}), testutil.NewDisposable)
	c := b.Seal()

	c.BeginScope()
	v := testutil.AssertResolvable(t, c, ioc.TypeID(reflect.TypeOf(&testutil.Disposable{})))
	d := v.(*testutil.Disposable)
	require.NoError(t, c.EndScope())
	require.True(t, d.Terminated())
}

func TestContainerBuilderStrictModeBlocksUnregistered(t *testing.T) {
	b := testutil.NewContainerBuilder(t, ioc.ContainerConfig{Strict: true})
	c := b.Seal()

	_, err := c.Get("Nothing.Here")
	testutil.AssertPolicyBlocked(t, err, "strict mode")
}
