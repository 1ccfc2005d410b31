package gstc

import "strings"

// Protocol verbs. Commands are verb-first, space-delimited tokens with no
// quoting, so names and values containing whitespace cannot be expressed
// as a single token.
const (
	verbCreate = "create"
	verbRead   = "read"
	verbUpdate = "update"
	verbDelete = "delete"
)

func buildCreate(path, payload string) string {
	return join(verbCreate, path, payload)
}

func buildRead(path string) string {
	return join(verbRead, path)
}

func buildUpdate(path, value string) string {
	return join(verbUpdate, path, value)
}

func buildDelete(path, name string) string {
	return join(verbDelete, path, name)
}

func join(tokens ...string) string {
	return strings.Join(tokens, " ")
}

// verbOf returns the leading token of a command.
func verbOf(request string) string {
	if i := strings.IndexByte(request, ' '); i >= 0 {
		return request[:i]
	}
	return request
}

// Resource paths.
const (
	rootPath      = "/"
	pipelinesPath = "/pipelines"
)

func pipelinePath(name string) string {
	return pipelinesPath + "/" + name
}

func statePath(pipeline string) string {
	return pipelinePath(pipeline) + "/state"
}

func eventPath(pipeline string) string {
	return pipelinePath(pipeline) + "/event"
}

func propertyPath(pipeline, element, property string) string {
	return pipelinePath(pipeline) + "/elements/" + element + "/properties/" + property
}

func busPath(pipeline, what string) string {
	return pipelinePath(pipeline) + "/bus/" + what
}
