package stac

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/venicegeo/bf-imagery-clip/model"
	"github.com/venicegeo/bf-imagery-clip/util"
	"github.com/venicegeo/geojson-go/geojson"
)

// DiscoverHandler proxies a catalog search for one collection, returning the
// matching scenes as a GeoJSON feature collection
type DiscoverHandler struct {
	Context *Context
}

// NewDiscoverHandler creates a DiscoverHandler configured from the environment
func NewDiscoverHandler() DiscoverHandler {
	return DiscoverHandler{Context: NewContext()}
}

func (h DiscoverHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	options := SearchOptions{
		Collection: mux.Vars(request)["collection"],
		Datetime:   request.URL.Query().Get("datetime"),
	}

	if bboxString := request.URL.Query().Get("bbox"); bboxString != "" {
		bbox, err := geojson.NewBoundingBox(bboxString)
		if err != nil {
			http.Error(writer, "Could not parse bbox: "+err.Error(), http.StatusBadRequest)
			return
		}
		options.Bbox = bbox
	}

	if ccString := request.URL.Query().Get("cloudCover"); ccString != "" {
		cloudCover, err := strconv.ParseFloat(ccString, 64)
		if err != nil {
			http.Error(writer, "Could not parse cloudCover: "+err.Error(), http.StatusBadRequest)
			return
		}
		options.Query = map[string]map[string]interface{}{
			"eo:cloud_cover": {"lte": cloudCover},
		}
	}

	scenes, err := GetScenes(options, h.Context)
	if err != nil {
		if httpErr, ok := err.(util.HTTPErr); ok {
			http.Error(writer, httpErr.Message, httpErr.Status)
		} else {
			http.Error(writer, err.Error(), http.StatusBadGateway)
		}
		return
	}

	collection, err := model.SceneCollection{Scenes: scenes}.GeoJSONFeatureCollection()
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.Write([]byte(collection.String()))
}
