package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/viewmig/internal/testutils"
	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const view16 = `<odoo>
    <form>
        <field name="partner_id" attrs="{'invisible': [('state', '=', 'draft')]}"/>
    </form>
</odoo>
`

// setupAddons creates an addons tree whose config keeps logs and backups
// inside the returned scratch directory.
func setupAddons(t *testing.T, version string) (root, scratch string) {
	t.Helper()
	scratch = t.TempDir()
	root = testutils.SetupAddons(t, map[string]string{
		"sale_ext/__manifest__.py":       "{'name': 'sale_ext', 'version': '" + version + "'}\n",
		"sale_ext/views/sale_views.xml": view16,
	})
	testutils.WriteFile(t, root, "viewmig.yaml",
		"log_file: "+filepath.ToSlash(filepath.Join(scratch, "update.log"))+"\n"+
			"backup_dir: "+filepath.ToSlash(scratch)+"\n")
	return root, scratch
}

func TestRunMigrate(t *testing.T) {
	root, scratch := setupAddons(t, "16.0.1.0.0")
	var out bytes.Buffer

	report, err := RunMigrate(context.Background(), MigrateOptions{
		Dir: root, Yes: true, In: strings.NewReader(""), Out: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, 16, report.From)
	assert.Equal(t, []string{"sale_ext/views/sale_views.xml"}, report.Steps[0].Succeeded)
	assert.Contains(t, out.String(), "You are about to update from Odoo 16 to 17.")
	assert.Contains(t, testutils.ReadFile(t, root, "sale_ext/views/sale_views.xml"), `invisible="state == 'draft'"`)

	require.NotEmpty(t, report.Backup)
	assert.Equal(t, scratch, filepath.Dir(report.Backup))
	_, err = os.Stat(report.Backup)
	assert.NoError(t, err)

	log, err := os.ReadFile(filepath.Join(scratch, "update.log"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "converted view")

	saved, err := reportStore(root, mustConfig(t, root)).Load(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Backup, saved.Backup)
}

func TestRunMigrate_Declined(t *testing.T) {
	root, _ := setupAddons(t, "16.0.1.0.0")

	_, err := RunMigrate(context.Background(), MigrateOptions{
		Dir: root, In: strings.NewReader("n\n"), Out: &bytes.Buffer{},
	})
	assert.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, view16, testutils.ReadFile(t, root, "sale_ext/views/sale_views.xml"))
}

func TestRunMigrate_ConfirmFiles(t *testing.T) {
	root, _ := setupAddons(t, "16.0.1.0.0")

	report, err := RunMigrate(context.Background(), MigrateOptions{
		Dir: root, ConfirmFiles: true, NoBackup: true,
		In: strings.NewReader("y\nn\n"), Out: &bytes.Buffer{},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sale_ext/views/sale_views.xml"}, report.Steps[0].Skipped)
	assert.Empty(t, report.Backup)
}

func TestRunMigrate_VersionChecks(t *testing.T) {
	root, _ := setupAddons(t, "17.0.1.0.0")
	opts := MigrateOptions{Dir: root, From: 16, Yes: true, DryRun: true, In: strings.NewReader(""), Out: &bytes.Buffer{}}

	_, err := RunMigrate(context.Background(), opts)
	assert.ErrorIs(t, err, ErrVersionMismatch)

	opts.Force = true
	report, err := RunMigrate(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Empty(t, report.Backup)
	assert.Equal(t, view16, testutils.ReadFile(t, root, "sale_ext/views/sale_views.xml"))

	_, err = RunMigrate(context.Background(), MigrateOptions{Dir: filepath.Join(root, "missing")})
	assert.Error(t, err)
}

func TestRunMigrate_Steps(t *testing.T) {
	root, _ := setupAddons(t, "17.0.1.0.0")

	report, err := RunMigrate(context.Background(), MigrateOptions{
		Dir: root, Yes: true, NoBackup: true, Author: "Jane",
		Steps: []string{"manifests"},
		In:    strings.NewReader(""), Out: &bytes.Buffer{},
	})
	require.NoError(t, err)
	require.Len(t, report.Steps, 1)
	assert.Equal(t, []string{"sale_ext/__manifest__.py"}, report.Steps[0].Succeeded)
	assert.Contains(t, testutils.ReadFile(t, root, "sale_ext/__manifest__.py"), "'version': '18.0.1.0.0'")
	assert.Equal(t, 0, report.FailedCount())
	assert.IsType(t, &domain.Report{}, report)
}
