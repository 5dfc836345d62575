package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentEncode(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"name":"acme/app","require":{"php":">=8.1","acme/foo":"^1.0"},"extra":{"url":"https://x/<y>&z","list":[1,2]},"empty":{}}`))
	require.NoError(t, err)

	out, err := doc.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{
    "name": "acme/app",
    "require": {
        "php": ">=8.1",
        "acme/foo": "^1.0"
    },
    "extra": {
        "url": "https://x/<y>&z",
        "list": [
            1,
            2
        ]
    },
    "empty": {}
}
`, string(out))
}

func TestDocumentSetConstraint(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"name":"acme/app","require":{"acme/foo":"^1.0","acme/bar":"^2.0"}}`))
	require.NoError(t, err)

	require.NoError(t, doc.SetConstraint(Require, "acme/foo", "^2.3"))
	require.NoError(t, doc.SetConstraint(Require, "acme/baz", "^0.4.1"))
	require.NoError(t, doc.SetConstraint(RequireDev, "phpunit/phpunit", "^11.0"))

	deps, err := doc.Dependencies(Require)
	require.NoError(t, err)
	assert.Equal(t, []Dependency{{"acme/foo", "^2.3"}, {"acme/bar", "^2.0"}, {"acme/baz", "^0.4.1"}}, deps)

	dev, err := doc.Dependencies(RequireDev)
	require.NoError(t, err)
	assert.Equal(t, []Dependency{{"phpunit/phpunit", "^11.0"}}, dev)

	assert.Equal(t, []string{"name", "require", "require-dev"}, doc.Keys())
}

func TestEmptyDocumentEncode(t *testing.T) {
	doc, err := ParseDocument([]byte(`{}`))
	require.NoError(t, err)
	out, err := doc.Encode()
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(out))
}

func TestDocumentEncodeUnescapesUntouchedValues(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"require":{"acme/foo":"^1.0"},"repositories":[{"type":"vcs","url":"https:\/\/x<y","priority":1.50,"canonical":false,"options":null}],"extra":{"b":"&","a":["\/"]}}`))
	require.NoError(t, err)
	require.NoError(t, doc.SetConstraint(Require, "acme/foo", "^2.3"))

	out, err := doc.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{
    "require": {
        "acme/foo": "^2.3"
    },
    "repositories": [
        {
            "type": "vcs",
            "url": "https://x<y",
            "priority": 1.50,
            "canonical": false,
            "options": null
        }
    ],
    "extra": {
        "b": "&",
        "a": [
            "/"
        ]
    }
}
`, string(out))
}
