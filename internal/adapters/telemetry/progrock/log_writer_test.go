package progrock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	vprogrock "github.com/vito/progrock"
	"go.trai.ch/dsget/internal/adapters/telemetry/progrock"
	"go.trai.ch/dsget/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func logUpdate(id, data string) *vprogrock.StatusUpdate {
	return &vprogrock.StatusUpdate{
		Logs: []*vprogrock.VertexLog{{Vertex: id, Data: []byte(data)}},
	}
}

func TestLogWriter_JoinsSplitLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug("halfway there", "file", "data/a.parquet").Times(1)

	w := progrock.NewLogWriter(log)
	require.NoError(t, w.WriteStatus(&vprogrock.StatusUpdate{
		Vertexes: []*vprogrock.Vertex{{Id: "1", Name: "data/a.parquet"}},
	}))
	require.NoError(t, w.WriteStatus(logUpdate("1", "half")))
	require.NoError(t, w.WriteStatus(logUpdate("1", "way there\n")))
}

func TestLogWriter_LevelTags(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	gomock.InOrder(
		log.EXPECT().Info("hello", "file", "1"),
		log.EXPECT().Warn("slow mirror", "file", "1"),
		log.EXPECT().Debug("[NOPE] kept verbatim", "file", "1"),
	)

	w := progrock.NewLogWriter(log)
	require.NoError(t, w.WriteStatus(logUpdate("1", "[INFO] hello\n[WARN] slow mirror\n[NOPE] kept verbatim\n\n")))
}

func TestLogWriter_CompletesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info("File downloaded", "file", "README.md", "duration", 2*time.Second).Times(1)

	started := time.Now()
	vertex := &vprogrock.Vertex{
		Id:        "1",
		Name:      "README.md",
		Started:   timestamppb.New(started),
		Completed: timestamppb.New(started.Add(2 * time.Second)),
	}

	w := progrock.NewLogWriter(log)
	update := &vprogrock.StatusUpdate{Vertexes: []*vprogrock.Vertex{vertex}}
	require.NoError(t, w.WriteStatus(update))
	require.NoError(t, w.WriteStatus(update))
}

func TestLogWriter_CanceledVertex(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug("File canceled", "file", "README.md").Times(1)

	w := progrock.NewLogWriter(log)
	require.NoError(t, w.WriteStatus(&vprogrock.StatusUpdate{
		Vertexes: []*vprogrock.Vertex{{
			Id:        "1",
			Name:      "README.md",
			Canceled:  true,
			Completed: timestamppb.New(time.Now()),
		}},
	}))
}

func TestLogWriter_CloseFlushesPartialLine(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug("tail", "file", "1").Times(1)

	w := progrock.NewLogWriter(log)
	require.NoError(t, w.WriteStatus(logUpdate("1", "tail")))
	require.NoError(t, w.Close())
}
