package dataset_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gkobilansky/conversion-goat/internal/dataset"
	"github.com/gkobilansky/conversion-goat/internal/experiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawExport = `user_id,timestamp,group,landing_page,converted
851104,2017-01-21 22:11:48.556739,control,old_page,0
804228,2017-01-12 08:01:45.159739,control,old_page,0
661590,2017-01-11 16:55:06.154213,treatment,new_page,1
`

func TestRead_DefaultColumns(t *testing.T) {
	records, err := dataset.Read(strings.NewReader(rawExport), dataset.DefaultColumns())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, experiment.Record{
		UserID:    "661590",
		Group:     experiment.GroupTreatment,
		Page:      experiment.PageNew,
		Converted: true,
	}, records[2])
	assert.False(t, records[0].Converted)
}

func TestRead_CustomColumns(t *testing.T) {
	input := "uid,arm,page,bought\n1,control,old_page,true\n2,treatment,new_page,false\n"
	cols := dataset.Columns{UserID: "uid", Group: "arm", Page: "page", Converted: "bought"}

	records, err := dataset.Read(strings.NewReader(input), cols)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.True(t, records[0].Converted)
	assert.Equal(t, experiment.GroupTreatment, records[1].Group)
}

func TestRead_MissingColumn(t *testing.T) {
	_, err := dataset.Read(strings.NewReader("user_id,group,converted\n1,control,0\n"), dataset.DefaultColumns())
	require.Error(t, err)
	assert.True(t, errors.Is(err, dataset.ErrMissingColumn))
	assert.Contains(t, err.Error(), "landing_page")
}

func TestRead_InvalidConverted(t *testing.T) {
	input := "user_id,group,landing_page,converted\n1,control,old_page,maybe\n"

	_, err := dataset.Read(strings.NewReader(input), dataset.DefaultColumns())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestRead_BlankConverted(t *testing.T) {
	input := "user_id,group,landing_page,converted\n1,control,old_page,1\n2,control,old_page,\n3,control,old_page,0\n"

	records, err := dataset.Read(strings.NewReader(input), dataset.DefaultColumns())
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "converted")
}

func TestRead_Empty(t *testing.T) {
	_, err := dataset.Read(strings.NewReader(""), dataset.DefaultColumns())
	assert.Error(t, err)
}

func TestWriteRead_RoundTrip(t *testing.T) {
	records := []experiment.Record{
		{UserID: "1", Group: experiment.GroupControl, Page: experiment.PageOld, Converted: false},
		{UserID: "2", Group: experiment.GroupTreatment, Page: experiment.PageNew, Converted: true},
	}

	var buf bytes.Buffer
	require.NoError(t, dataset.Write(&buf, records, dataset.DefaultColumns()))
	assert.True(t, strings.HasPrefix(buf.String(), "user_id,group,landing_page,converted\n"))

	got, err := dataset.Read(&buf, dataset.DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestWriteFile_ReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.csv")
	records := []experiment.Record{
		{UserID: "773192", Group: experiment.GroupTreatment, Page: experiment.PageNew, Converted: false},
	}

	require.NoError(t, dataset.WriteFile(path, records, dataset.DefaultColumns()))

	got, err := dataset.ReadFile(path, dataset.DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestReadFile_NotFound(t *testing.T) {
	_, err := dataset.ReadFile(filepath.Join(t.TempDir(), "missing.csv"), dataset.DefaultColumns())
	assert.Error(t, err)
}
