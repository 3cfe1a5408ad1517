package stash

import (
	"context"
	"fmt"

	"github.com/JustinTDCT/instameta/internal/plugin"
)

// Tag is a catalog tag as returned on items and tag queries.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// File is a media file reference on a Scene.
type File struct {
	Path string `json:"path"`
}

// Item is the common shape of a Scene or Image for enrichment purposes.
// Scenes report file paths under files[]; images report a single path.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Date  string `json:"date"`
	Tags  []Tag  `json:"tags"`
	Files []File `json:"files"`
	Path  string `json:"path"`
}

// FilePaths returns every media file path known for the item.
func (it *Item) FilePaths() []string {
	var paths []string
	for _, f := range it.Files {
		if f.Path != "" {
			paths = append(paths, f.Path)
		}
	}
	if it.Path != "" {
		paths = append(paths, it.Path)
	}
	return paths
}

// TagIDs returns the ids of the item's current tags.
func (it *Item) TagIDs() []string {
	ids := make([]string, 0, len(it.Tags))
	for _, t := range it.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

const findSceneQuery = `
query($id: ID!) {
  findScene(id: $id) {
    id title url date
    tags { id name }
    files { path }
  }
}`

const findImageQuery = `
query($id: ID!) {
  findImage(id: $id) {
    id title url date
    tags { id name }
    path
  }
}`

// FindItem looks up a Scene or Image by id. A nil item with nil error means
// the host has no such item.
func (c *Client) FindItem(ctx context.Context, target plugin.TargetType, id string) (*Item, error) {
	switch target {
	case plugin.TargetScene:
		var data struct {
			FindScene *Item `json:"findScene"`
		}
		if err := c.execute(ctx, findSceneQuery, map[string]interface{}{"id": id}, &data); err != nil {
			return nil, err
		}
		return data.FindScene, nil
	case plugin.TargetImage:
		var data struct {
			FindImage *Item `json:"findImage"`
		}
		if err := c.execute(ctx, findImageQuery, map[string]interface{}{"id": id}, &data); err != nil {
			return nil, err
		}
		return data.FindImage, nil
	default:
		return nil, fmt.Errorf("unsupported target type %q", target)
	}
}

const sceneUpdateMutation = `
mutation($input: SceneUpdateInput!) {
  sceneUpdate(input: $input) { id }
}`

const imageUpdateMutation = `
mutation($input: ImageUpdateInput!) {
  imageUpdate(input: $input) { id }
}`

// UpdateItem applies the given field updates to a Scene or Image. Only keys
// present in updates are sent, alongside the mandatory id.
func (c *Client) UpdateItem(ctx context.Context, target plugin.TargetType, id string, updates map[string]interface{}) error {
	input := map[string]interface{}{"id": id}
	for k, v := range updates {
		if v != nil {
			input[k] = v
		}
	}

	mutation := sceneUpdateMutation
	if target == plugin.TargetImage {
		mutation = imageUpdateMutation
	}
	return c.execute(ctx, mutation, map[string]interface{}{"input": input}, nil)
}
