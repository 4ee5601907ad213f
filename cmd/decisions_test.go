package main

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveylens/brandcheck/internal/model"
)

func TestDecisionsFilter_FromFlags(t *testing.T) {
	decisionsAction = "reject"
	decisionsMode = "response"
	decisionsLimit = 25
	t.Cleanup(func() {
		decisionsAction = ""
		decisionsMode = ""
		decisionsLimit = 50
	})

	filter := decisionsFilter()
	assert.Equal(t, model.ActionReject, filter.Action)
	assert.Equal(t, "response", filter.Mode)
	assert.Equal(t, 25, filter.Limit)
}

func TestDecisionsFilter_Unset(t *testing.T) {
	decisionsAction = ""
	decisionsMode = ""
	decisionsLimit = 50

	filter := decisionsFilter()
	assert.Equal(t, model.Action(""), filter.Action)
	assert.Equal(t, "", filter.Mode)
}

func TestDecisionFilterFromQuery(t *testing.T) {
	q, err := url.ParseQuery("action=approve&mode=entity")
	require.NoError(t, err)

	filter := decisionFilterFromQuery(q)
	assert.Equal(t, model.ActionApprove, filter.Action)
	assert.Equal(t, "entity", filter.Mode)

	empty := decisionFilterFromQuery(url.Values{})
	assert.Equal(t, model.Action(""), empty.Action)
}
