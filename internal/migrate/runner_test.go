package migrate_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/viewmig/internal/config"
	"github.com/aretw0/viewmig/internal/migrate"
	"github.com/aretw0/viewmig/internal/testutils"
	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/aretw0/viewmig/pkg/registry"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodView = `<odoo>
    <record id="view_form" model="ir.ui.view">
        <field name="arch" type="xml">
            <form>
                <field name="partner_id" attrs="{'invisible': [('state', '=', 'draft')]}"/>
            </form>
        </field>
    </record>
</odoo>
`

const plainView = `<odoo>
    <record id="view_tree" model="ir.ui.view">
        <field name="arch" type="xml">
            <tree><field name="name"/></tree>
        </field>
    </record>
</odoo>
`

const badView = `<odoo><field name="a" attrs="{'invisible': [('x', '=' 1)]}"/></odoo>`

const manifest17 = `{
    'name': 'Sale Extension',
    'version': '17.0.1.0.0',
    'depends': ['sale'],
}
`

func TestRun_16To17(t *testing.T) {
	root := testutils.SetupAddons(t, map[string]string{
		"sale_ext/views/good.xml":         goodView,
		"sale_ext/views/sub/plain.xml":    plainView,
		"sale_ext/views/bad.xml":          badView,
		"sale_ext/data/not_a_view.xml":    goodView,
		"sale_ext/__manifest__.py":        manifest17,
		"sale_ext/.git/views/ignored.xml": goodView,
	})

	var mu sync.Mutex
	var conversions []*domain.ConversionEvent
	hooks := domain.Hooks{
		OnConversion: func(_ context.Context, e *domain.ConversionEvent) {
			mu.Lock()
			defer mu.Unlock()
			conversions = append(conversions, e)
		},
	}

	report, err := migrate.New(root, migrate.WithHooks(hooks)).Run(context.Background(), 16)
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, 1)
	assert.ErrorIs(t, err, domain.ErrMalformedLiteral)

	assert.Equal(t, 16, report.From)
	assert.Equal(t, 17, report.To)
	require.Len(t, report.Steps, 2)
	views := report.Steps[0]
	assert.Equal(t, migrate.StepViews, views.Name)
	assert.Equal(t, []string{"sale_ext/views/good.xml"}, views.Succeeded)
	assert.Equal(t, []string{"sale_ext/views/sub/plain.xml"}, views.Skipped)
	require.Len(t, views.Failed, 1)
	assert.Equal(t, "sale_ext/views/bad.xml", views.Failed[0].Path)
	assert.NotEmpty(t, report.Steps[1].Notes)

	assert.Contains(t, testutils.ReadFile(t, root, "sale_ext/views/good.xml"), `invisible="state == 'draft'"`)
	assert.Equal(t, goodView, testutils.ReadFile(t, root, "sale_ext/data/not_a_view.xml"))
	assert.Equal(t, goodView, testutils.ReadFile(t, root, "sale_ext/.git/views/ignored.xml"))
	assert.Equal(t, badView, testutils.ReadFile(t, root, "sale_ext/views/bad.xml"))

	require.Len(t, conversions, 1)
	assert.Equal(t, "attrs", conversions[0].Kind)
	assert.Equal(t, "sale_ext/views/good.xml", conversions[0].Path)
}

func TestRun_17To18(t *testing.T) {
	root := testutils.SetupAddons(t, map[string]string{
		"sale_ext/views/views.xml": plainView,
		"sale_ext/static/app.js":   "const viewType = 'tree';\nconst street = 1;\n",
		"sale_ext/README.md":       "A tree of things\n",
		"sale_ext/__manifest__.py": manifest17,
	})

	cfg := config.Default()
	cfg.Author = "Jane Doe"
	report, err := migrate.New(root, migrate.WithConfig(cfg)).Run(context.Background(), 17)
	require.NoError(t, err)

	require.Len(t, report.Steps, 3)
	assert.Equal(t, []string{"sale_ext/static/app.js", "sale_ext/views/views.xml"}, report.Steps[0].Succeeded)
	assert.Equal(t, []string{"sale_ext/__manifest__.py"}, report.Steps[1].Succeeded)
	assert.Equal(t, 3, report.SucceededCount())

	assert.Contains(t, testutils.ReadFile(t, root, "sale_ext/views/views.xml"), "<list><field name=\"name\"/></list>")
	assert.Equal(t, "const viewType = 'list';\nconst street = 1;\n", testutils.ReadFile(t, root, "sale_ext/static/app.js"))
	assert.Equal(t, "A tree of things\n", testutils.ReadFile(t, root, "sale_ext/README.md"))

	m := testutils.ReadFile(t, root, "sale_ext/__manifest__.py")
	assert.Contains(t, m, "'version': '18.0.1.0.0'")
	assert.Contains(t, m, "'author': 'Jane Doe'")
	assert.Contains(t, m, "'maintainers': ['Jane Doe']")
}

func TestRun_DryRun(t *testing.T) {
	root := testutils.SetupAddons(t, map[string]string{
		"m/views/good.xml": goodView,
	})

	report, err := migrate.New(root, migrate.WithDryRun(true)).Run(context.Background(), 16)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, []string{"m/views/good.xml"}, report.Steps[0].Succeeded)
	assert.Equal(t, goodView, testutils.ReadFile(t, root, "m/views/good.xml"))
}

func TestRun_15To16HasNoSteps(t *testing.T) {
	root := testutils.SetupAddons(t, map[string]string{"m/views/good.xml": goodView})

	report, err := migrate.New(root).Run(context.Background(), 15)
	require.NoError(t, err)
	require.Len(t, report.Steps, 1)
	assert.Equal(t, "manual", report.Steps[0].Name)
	assert.Len(t, report.Steps[0].Notes, 2)
	assert.Equal(t, goodView, testutils.ReadFile(t, root, "m/views/good.xml"))
}

func TestRun_UnsupportedPath(t *testing.T) {
	_, err := migrate.New(t.TempDir()).Run(context.Background(), 14)
	assert.ErrorIs(t, err, migrate.ErrUnsupportedPath)
}

func TestRun_Cancelled(t *testing.T) {
	root := testutils.SetupAddons(t, map[string]string{"m/views/good.xml": goodView})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := migrate.New(root).Run(ctx, 16)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, goodView, testutils.ReadFile(t, root, "m/views/good.xml"))
}

type declineAll struct{ asked []string }

func (d *declineAll) Confirm(_ context.Context, step, path, _ string) (bool, error) {
	d.asked = append(d.asked, step+":"+path)
	return false, nil
}

func TestRun_DeclinedFilesAreSkipped(t *testing.T) {
	root := testutils.SetupAddons(t, map[string]string{"m/views/good.xml": goodView})

	c := &declineAll{}
	report, err := migrate.New(root, migrate.WithConfirmer(c)).Run(context.Background(), 16)
	require.NoError(t, err)
	assert.Equal(t, []string{"views:m/views/good.xml"}, c.asked)
	assert.Equal(t, []string{"m/views/good.xml"}, report.Steps[0].Skipped)
	assert.Equal(t, goodView, testutils.ReadFile(t, root, "m/views/good.xml"))
}

func TestUpdateManifests_InvalidManifest(t *testing.T) {
	root := testutils.SetupAddons(t, map[string]string{
		"a/__manifest__.py": "{'version': 17}\n",
		"b/__manifest__.py": "{'name': 'b', 'version': '17.0.1.0.0', 'maintainers': 'bob'}\n",
	})

	cfg := config.Default()
	cfg.Author = "Jane"
	step, err := migrate.New(root, migrate.WithConfig(cfg)).UpdateManifests(context.Background(), 18)
	require.Error(t, err)
	require.Len(t, step.Failed, 1)
	assert.Equal(t, "a/__manifest__.py", step.Failed[0].Path)
	assert.Contains(t, step.Failed[0].Reason, "invalid manifest")
	assert.Equal(t, []string{"b/__manifest__.py"}, step.Succeeded)
	require.Len(t, step.Notes, 1)
	assert.True(t, strings.HasPrefix(step.Notes[0], "b/__manifest__.py: maintainers is not a list"))
}

func TestNewReportID(t *testing.T) {
	id := migrate.NewReportID(time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(id, "20260301_101500-"))
	assert.Len(t, id, len("20260301_101500-")+8)
}

func TestRunStep_Unknown(t *testing.T) {
	root := testutils.SetupAddons(t, map[string]string{})
	r := migrate.New(root)

	step, err := r.RunStep(context.Background(), "py3", 17)
	require.ErrorIs(t, err, registry.ErrUnknownStep)
	assert.Equal(t, "py3", step.Name)
}
