package geojson

import (
	"fmt"
	"os"
)

// demoZone is a simplified rectangular maritime zone in the Arabian
// Sea, used for demos and tests.
const demoZone = `{
  "type": "Feature",
  "properties": {"name": "demo_maritime_zone"},
  "geometry": {
    "type": "Polygon",
    "coordinates": [[
      [68.0, 20.0], [75.0, 20.0], [75.0, 26.0], [68.0, 26.0], [68.0, 20.0]
    ]]
  }
}
`

// demoBoundary is the matching reference boundary line running up the
// zone's western edge.
const demoBoundary = `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "properties": {"name": "demo_maritime_boundary"},
    "geometry": {
      "type": "LineString",
      "coordinates": [
        [68.0, 23.0], [68.0, 24.0], [68.0, 25.0], [68.0, 26.0]
      ]
    }
  }]
}
`

// WriteDemoFiles writes the demo zone and boundary files if they do not
// already exist. Existing files are left untouched.
func WriteDemoFiles(zonePath, boundaryPath string) error {
	if err := writeIfMissing(zonePath, demoZone); err != nil {
		return err
	}
	return writeIfMissing(boundaryPath, demoBoundary)
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("geojson: write %s: %w", path, err)
	}
	return nil
}
