package tasks

var shapeExtrapolationPrompts = []string{
	"A camera orbits 360 degrees around a 3D object. Given the first 75% of the video (270 degrees of rotation), predict what the object looks like from the remaining unseen angles. Generate the final 25% of frames showing the back side of the object.",
	"This video shows a 3D object being viewed from a camera that rotates around it. The video captures the first three-quarters of a full orbit. Predict the next-frame sequence that completes the remaining quarter of the orbit, revealing the previously unseen side of the object.",
	"A 3D object is filmed by a camera performing a circular orbit. You are shown 75% of the rotation. Extrapolate the object's appearance for the remaining 25% of angles to complete the full 360-degree view.",
	"Watch a camera slowly orbit around a single 3D object. The video shows 270 degrees of the orbit. Your task is to predict the final 90 degrees of rotation, showing what the back of the object looks like based on the geometry and textures visible so far.",
	"A single 3D object is captured by an orbiting camera. Given the majority of the orbit as context, generate the remaining frames that complete the full rotation around the object.",
}

var occlusionDynamicsPrompts = []string{
	"A camera orbits around two 3D objects. As the camera moves, one object progressively occludes the other. Given the first 75% of the video, predict how the occlusion pattern changes in the remaining frames.",
	"Two 3D objects are filmed by a camera performing a circular orbit. During the rotation, one object passes in front of the other from the camera's perspective. Predict the next frames showing how the occlusion resolves as the camera continues orbiting.",
	"Watch a camera orbit around a scene with two objects. The objects occlude each other at certain angles. Given 75% of the orbit, generate the remaining 25% showing how the objects appear and disappear behind each other.",
	"This video shows two 3D objects viewed from an orbiting camera. One object blocks the view of the other at certain angles. Predict the final quarter of the orbit, correctly handling the occlusion dynamics.",
}

var depthParallaxPrompts = []string{
	"A camera moves laterally across a scene containing three 3D objects at different depths. Near objects appear to move faster than far objects (parallax effect). Given the first 75% of the camera's lateral movement, predict the remaining frames.",
	"Three 3D objects are placed at different distances from the camera. The camera slides from left to right, creating a depth parallax effect. Predict the final 25% of the video based on the depth relationships observed so far.",
	"This video shows a lateral camera pan across a scene with objects at varying depths. Closer objects shift more in the frame than distant ones. Generate the remaining frames, maintaining correct parallax motion for each depth layer.",
	"Watch a camera translate sideways through a 3D scene. Objects at different distances move at different apparent speeds due to depth parallax. Predict the next frames showing the correct relative motion of near and far objects.",
}

var zoomConsistencyPrompts = []string{
	"A camera zooms steadily toward a 3D object from a fixed angle. Given the first 75% of the zoom sequence, predict the remaining frames showing the object at closer range with increasing detail.",
	"This video shows a 3D object being approached by a camera moving straight toward it. The object grows larger in the frame as the camera zooms in. Predict the final 25% of the zoom, maintaining geometric consistency.",
	"Watch a camera perform a pure zoom toward a single 3D object (no rotation). As the camera gets closer, finer details become visible. Generate the remaining frames of the zoom approach.",
	"A 3D object is filmed by a camera that moves directly toward it in a smooth zoom. Given most of the zoom sequence, predict how the object appears at the closest distance, preserving its 3D structure and proportions.",
}
