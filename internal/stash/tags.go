package stash

import (
	"context"
	"fmt"
)

const findTagQuery = `
query($name: String!) {
  allTags(filter: {name: {equals: $name}}) { id name }
}`

const tagCreateMutation = `
mutation($input: TagCreateInput!) {
  tagCreate(input: $input) { id }
}`

// EnsureTag returns the id of the tag with the given name, creating it when
// it does not exist yet.
func (c *Client) EnsureTag(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("tag name is required")
	}

	var found struct {
		AllTags []Tag `json:"allTags"`
	}
	if err := c.execute(ctx, findTagQuery, map[string]interface{}{"name": name}, &found); err != nil {
		return "", fmt.Errorf("find tag %q: %w", name, err)
	}
	if len(found.AllTags) > 0 {
		return found.AllTags[0].ID, nil
	}

	var created struct {
		TagCreate struct {
			ID string `json:"id"`
		} `json:"tagCreate"`
	}
	input := map[string]interface{}{"input": map[string]interface{}{"name": name}}
	if err := c.execute(ctx, tagCreateMutation, input, &created); err != nil {
		return "", fmt.Errorf("create tag %q: %w", name, err)
	}
	if created.TagCreate.ID == "" {
		return "", fmt.Errorf("tagCreate returned no id for %q", name)
	}
	return created.TagCreate.ID, nil
}
