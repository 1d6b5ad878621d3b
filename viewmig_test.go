package viewmig_test

import (
	"context"
	"testing"

	"github.com/aretw0/viewmig"
	"github.com/aretw0/viewmig/internal/testutils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrator(t *testing.T) {
	root := testutils.SetupAddons(t, map[string]string{
		"viewmig.yaml": "author: From Config\n",
		"mod/__manifest__.py": "{'name': 'mod', 'version': '17.0.1.0.0'}\n",
	})

	report, err := viewmig.New(root).Migrate(context.Background(), 17)
	require.NoError(t, err)
	assert.Equal(t, 18, report.To)
	assert.Contains(t, testutils.ReadFile(t, root, "mod/__manifest__.py"), "'author': 'From Config'")

	root = testutils.SetupAddons(t, map[string]string{
		"mod/__manifest__.py": "{'name': 'mod', 'version': '17.0.1.0.0'}\n",
	})
	_, err = viewmig.New(root, viewmig.WithAuthor("Jane", "bob"), viewmig.WithDryRun(true)).Migrate(context.Background(), 17)
	require.NoError(t, err)
	assert.Equal(t, "{'name': 'mod', 'version': '17.0.1.0.0'}\n", testutils.ReadFile(t, root, "mod/__manifest__.py"))
}

func TestMigrator_Gatherer(t *testing.T) {
	root := testutils.SetupAddons(t, map[string]string{
		"mod/__manifest__.py": "{'name': 'mod', 'version': '17.0.1.0.0'}\n",
	})

	m := viewmig.New(root, viewmig.WithDryRun(true))
	_, err := m.Migrate(context.Background(), 17)
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(m.Gatherer(), "viewmig_files_total")
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestConvertView(t *testing.T) {
	out, n, err := viewmig.ConvertView(`<tree><field name="a" attrs="{'column_invisible': [('parent.state', '=', 'done')]}"/></tree>`)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, `<tree><field name="a" column_invisible="parent.state == 'done'"/></tree>`, out)
}
